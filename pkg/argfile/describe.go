package argfile

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/samber/oops"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// Doc describes the argument surface of a record type.
type Doc struct {
	Type string   `yaml:"type"`
	Args []ArgDoc `yaml:"args,omitempty"`
}

// ArgDoc describes a single argument: its binding name, the JSON shape it
// accepts, whether the file may omit it, and the default it falls back to.
// Nested records carry their own argument list instead of a default.
type ArgDoc struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Optional bool     `yaml:"optional,omitempty"`
	Default  string   `yaml:"default,omitempty"`
	Args     []ArgDoc `yaml:"args,omitempty"`
}

// Describe reflects over an argument record and reports every bindable
// argument, recursing into nested records. v may be a prototype value, in
// which case its non-zero fields are reported as defaults.
func Describe(v any, options ...Option) (Doc, error) {
	config := NewConfig(options...)

	t := reflect.TypeOf(v)
	if t == nil {
		return Doc{}, oops.Errorf("cannot describe nil: argument records are structs")
	}

	if t = deref(t); t.Kind() != reflect.Struct {
		return Doc{}, oops.Errorf("cannot describe %s: argument records are structs", t)
	}

	return Doc{
		Type: t.String(),
		Args: describeFields(config.TagName, t, derefValue(reflect.ValueOf(v))),
	}, nil
}

func describeFields(tagName string, t reflect.Type, v reflect.Value) []ArgDoc {
	var args []ArgDoc

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}

		info := parseFieldTag(tagName, field)
		if info.skipped {
			continue
		}

		var fieldValue reflect.Value
		if v.IsValid() {
			fieldValue = v.Field(i)
		}

		doc := ArgDoc{
			Name:     info.name,
			Type:     argTypeName(field.Type),
			Optional: info.optional,
		}

		if nested := deref(field.Type); nested.Kind() == reflect.Struct && nested != timeType {
			doc.Args = describeFields(tagName, nested, derefValue(fieldValue))
		} else {
			doc.Default = defaultValue(fieldValue)
		}

		args = append(args, doc)
	}

	return args
}

// Skeleton renders a starter argument file for a record type: every bindable
// argument appears with its default or a zero placeholder, so the output
// loads back cleanly and only needs real values filled in.
func Skeleton(v any, options ...Option) ([]byte, error) {
	config := NewConfig(options...)

	t := reflect.TypeOf(v)
	if t == nil {
		return nil, oops.Errorf("cannot build a skeleton for nil: argument records are structs")
	}

	if t = deref(t); t.Kind() != reflect.Struct {
		return nil, oops.Errorf("cannot build a skeleton for %s: argument records are structs", t)
	}

	data, err := json.MarshalIndent(skeletonFields(config.TagName, t, derefValue(reflect.ValueOf(v))), "", "  ")
	if err != nil {
		return nil, oops.Wrapf(err, "failed to encode skeleton")
	}

	return append(data, '\n'), nil
}

func skeletonFields(tagName string, t reflect.Type, v reflect.Value) map[string]any {
	skeleton := make(map[string]any, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}

		info := parseFieldTag(tagName, field)
		if info.skipped {
			continue
		}

		var fieldValue reflect.Value
		if v.IsValid() {
			fieldValue = v.Field(i)
		}

		skeleton[info.name] = skeletonValue(tagName, field.Type, fieldValue)
	}

	return skeleton
}

func skeletonValue(tagName string, t reflect.Type, v reflect.Value) any {
	t = deref(t)
	v = derefValue(v)

	switch t {
	case durationType:
		if v.IsValid() && !v.IsZero() {
			return v.Interface().(time.Duration).String()
		}

		return time.Duration(0).String()
	case timeType:
		if v.IsValid() && !v.IsZero() {
			return v.Interface().(time.Time).Format(time.RFC3339)
		}

		return time.Time{}.Format(time.RFC3339)
	}

	switch t.Kind() {
	case reflect.Struct:
		return skeletonFields(tagName, t, v)
	case reflect.Slice, reflect.Array:
		if v.IsValid() && v.Len() > 0 {
			return v.Interface()
		}

		return []any{}
	case reflect.Map:
		if v.IsValid() && v.Len() > 0 {
			return v.Interface()
		}

		return map[string]any{}
	case reflect.Interface:
		if v.IsValid() && !v.IsNil() {
			return v.Interface()
		}

		return nil
	}

	if v.IsValid() {
		return v.Interface()
	}

	return reflect.Zero(t).Interface()
}

// argTypeName renders the JSON shape an argument accepts rather than its Go
// type, since the reader of a Doc is writing a JSON file.
func argTypeName(t reflect.Type) string {
	t = deref(t)

	switch t {
	case durationType:
		return "duration"
	case timeType:
		return "time"
	}

	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "[]" + argTypeName(t.Elem())
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Interface:
		return "any"
	}

	return t.String()
}

// defaultValue renders a prototype field, or "" when it holds the zero value
// for its type.
func defaultValue(v reflect.Value) string {
	if !v.IsValid() || v.IsZero() {
		return ""
	}

	return fmt.Sprintf("%v", v.Interface())
}

func derefValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}
