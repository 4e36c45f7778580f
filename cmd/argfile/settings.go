package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

const (
	envPrefix     = "ARGFILE_"
	rcName        = "argfile"
	defaultLevel  = "info"
	defaultFormat = "text"
)

// settings configures the tool itself. Argument files stay plain JSON; the
// rc/env/flag layering below applies only to these knobs.
type settings struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Watch  bool   `koanf:"watch"`
}

func defaultSettings() settings {
	return settings{
		Level:  defaultLevel,
		Format: defaultFormat,
	}
}

type rcFile struct {
	path   string
	parser koanf.Parser
}

func discoverRCFiles() []rcFile {
	formats := []struct {
		ext    string
		parser koanf.Parser
	}{
		{".json", json.Parser()},
		{".yaml", yaml.Parser()},
		{".yml", yaml.Parser()},
		{".toml", toml.Parser()},
	}

	var files []rcFile
	for _, dir := range []string{".", "config"} {
		for _, format := range formats {
			path := filepath.Join(dir, rcName+format.ext)
			if _, err := os.Stat(path); err == nil {
				files = append(files, rcFile{path: path, parser: format.parser})
			}
		}
	}

	return files
}

// loadSettings layers the tool settings: rc files, then environment
// variables, then flags the user actually set.
func loadSettings(flagSet *pflag.FlagSet) (settings, error) {
	k := koanf.New(".")

	for _, rc := range discoverRCFiles() {
		if err := k.Load(file.Provider(rc.path), rc.parser); err != nil {
			return settings{}, oops.Wrapf(err, "failed to load rc file: %s", rc.path)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "_", "."))
	}), nil)
	if err != nil {
		return settings{}, oops.Wrapf(err, "failed to load environment variables")
	}

	if err := k.Load(posflag.Provider(flagSet, ".", k), nil); err != nil {
		return settings{}, oops.Wrapf(err, "failed to load flags")
	}

	s := defaultSettings()
	if err := k.Unmarshal("", &s); err != nil {
		return settings{}, oops.Wrapf(err, "failed to unmarshal settings")
	}

	return s, nil
}
