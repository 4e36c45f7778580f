package argfile

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// expand binds the decoded mapping into out, a pointer to the argument
// record. Every key of the mapping must land on an argument, and every
// required argument must be covered by the mapping or the defaults
// prototype.
func expand(config *Config, mapping map[string]any, out any) error {
	var metadata mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:   &metadata,
		Result:     out,
		TagName:    config.TagName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(config.DecodeHooks...),
	})
	if err != nil {
		return errBuilder(KindArgs).Wrapf(err, "failed to construct argument decoder")
	}

	if err := decoder.Decode(mapping); err != nil {
		return errBuilder(KindArgs).Wrapf(err, "cannot bind arguments")
	}

	if len(metadata.Unused) > 0 {
		return errUnexpectedArguments(metadata.Unused)
	}

	if missing := requiredUnset(config, reflect.TypeOf(out).Elem(), metadata.Unset); len(missing) > 0 {
		return errMissingArguments(missing)
	}

	return nil
}

// applyDefaults copies the defaults prototype into out before the mapping is
// bound, so file contents only overlay what they carry. The copy is by
// value, so reference fields of the prototype share backing storage across
// calls.
func applyDefaults(config *Config, out any) error {
	if config.Defaults == nil {
		return nil
	}

	source := reflect.ValueOf(config.Defaults)
	for source.Kind() == reflect.Pointer {
		if source.IsNil() {
			return nil
		}

		source = source.Elem()
	}

	target := reflect.ValueOf(out).Elem()
	if source.Type() != target.Type() {
		return errBuilder(KindArgs).
			Errorf("defaults type %s does not match argument type %s", source.Type(), target.Type())
	}

	target.Set(source)

	return nil
}

// requiredUnset filters the decoder's unset field paths down to the ones the
// callable requires. Optional and excluded fields are dropped, and a field
// the defaults prototype fills counts as provided.
func requiredUnset(config *Config, target reflect.Type, unset []string) []string {
	var missing []string

	for _, path := range unset {
		info, ok := fieldAt(config.TagName, target, path)
		if !ok || info.skipped || info.optional {
			continue
		}

		if config.Defaults != nil && defaultCovers(config.TagName, config.Defaults, path) {
			continue
		}

		missing = append(missing, path)
	}

	return missing
}

type fieldInfo struct {
	field    reflect.StructField
	name     string
	optional bool
	skipped  bool
}

// fieldAt resolves a dotted field path as the decoder reports it against the
// argument type. Index segments like "items[2]" step into the element type.
func fieldAt(tagName string, target reflect.Type, path string) (fieldInfo, bool) {
	var info fieldInfo

	current := deref(target)
	for _, segment := range strings.Split(path, ".") {
		name := segment
		indexed := false

		if i := strings.IndexByte(segment, '['); i >= 0 {
			name = segment[:i]
			indexed = true
		}

		current = deref(current)
		if current.Kind() != reflect.Struct {
			return fieldInfo{}, false
		}

		found, ok := lookupField(tagName, current, name)
		if !ok {
			return fieldInfo{}, false
		}

		info = found

		current = found.field.Type
		if indexed {
			current = deref(current)
			if current.Kind() != reflect.Slice && current.Kind() != reflect.Array {
				return fieldInfo{}, false
			}

			current = current.Elem()
		}
	}

	return info, true
}

// lookupField finds the exported field of target binding under name, per the
// tag rules.
func lookupField(tagName string, target reflect.Type, name string) (fieldInfo, bool) {
	for i := 0; i < target.NumField(); i++ {
		field := target.Field(i)
		if field.PkgPath != "" {
			continue
		}

		info := parseFieldTag(tagName, field)
		if info.name == name {
			return info, true
		}
	}

	return fieldInfo{}, false
}

// parseFieldTag derives the binding name and flags of a struct field. A tag
// of "-" excludes the field, and the "optional" flag marks an argument the
// file may omit.
func parseFieldTag(tagName string, field reflect.StructField) fieldInfo {
	parts := strings.Split(field.Tag.Get(tagName), ",")

	info := fieldInfo{field: field, name: parts[0]}
	if info.name == "" {
		info.name = field.Name
	}

	if parts[0] == "-" {
		info.skipped = true
	}

	for _, flag := range parts[1:] {
		if flag == "optional" {
			info.optional = true
		}
	}

	return info
}

// defaultCovers reports whether the defaults prototype carries a non-zero
// value at the given field path.
func defaultCovers(tagName string, defaults any, path string) bool {
	value := reflect.ValueOf(defaults)

	for _, segment := range strings.Split(path, ".") {
		if strings.IndexByte(segment, '[') >= 0 {
			return false
		}

		for value.Kind() == reflect.Pointer {
			if value.IsNil() {
				return false
			}

			value = value.Elem()
		}

		if value.Kind() != reflect.Struct {
			return false
		}

		info, ok := lookupField(tagName, value.Type(), segment)
		if !ok {
			return false
		}

		value = value.FieldByIndex(info.field.Index)
	}

	return !value.IsZero()
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}
