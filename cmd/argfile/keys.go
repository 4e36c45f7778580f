package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

type keyRow struct {
	Key  string `json:"key" yaml:"key"`
	Type string `json:"type" yaml:"type"`
}

func keysCommand(args []string) int {
	flagSet := pflag.NewFlagSet("keys", pflag.ContinueOnError)
	flagSet.String("format", defaultFormat, "output format (text, json, yaml)")
	flagSet.String("level", defaultLevel, "log level (debug, info, warn, error)")

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	s, err := loadSettings(flagSet)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	setupLogging(s)

	files := flagSet.Args()
	if len(files) != 1 {
		fmt.Fprintln(os.Stderr, "usage: argfile keys [--format text|json|yaml] <file>")
		return 2
	}

	mapping, err := inspect()(files[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", files[0], describeFailure(err))
		return 1
	}

	rows := make([]keyRow, 0, len(mapping))
	for key, value := range mapping {
		rows = append(rows, keyRow{Key: key, Type: jsonType(value)})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})

	return emitRows(s.Format, rows)
}

func emitRows(format string, rows []keyRow) int {
	switch format {
	case "text":
		for _, row := range rows {
			fmt.Printf("%s\t%s\n", row.Key, row.Type)
		}
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode json: %v\n", err)
			return 1
		}

		fmt.Println(string(data))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(yamlIndent)
		if err := enc.Encode(rows); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode yaml: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown format: %s\n", format)
		return 2
	}

	return 0
}

func jsonType(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}

	return fmt.Sprintf("%T", value)
}
