package argfile

// Validatable is implemented by argument records that check their own
// invariants after binding. Validate runs whenever a record is materialized
// from a file, and its error is returned to the caller unchanged.
type Validatable interface {
	Validate() error
}

// Bind wraps a callable taking an argument record so it can be invoked with a
// file path. Each call reads the file fresh, binds its JSON object onto a new
// A, and returns the callable's result and error unchanged.
func Bind[A, R any](fn func(A) (R, error), options ...Option) Func[R] {
	config := NewConfig(options...)

	return func(path string) (R, error) {
		args, err := loadArgs[A](config, path)
		if err != nil {
			var zero R
			return zero, err
		}

		return fn(*args)
	}
}

// BindValue is Bind for callables with no error return. The bound form still
// reports binder failures.
func BindValue[A, R any](fn func(A) R, options ...Option) Func[R] {
	return Bind(func(args A) (R, error) {
		return fn(args), nil
	}, options...)
}

// Bind0 wraps a callable taking no arguments. The file must still hold a
// JSON object, and any key in it is an unexpected-argument failure.
func Bind0[R any](fn func() (R, error), options ...Option) Func[R] {
	return Bind(func(_ struct{}) (R, error) {
		return fn()
	}, options...)
}

// BindMap wraps a callable that destructures the argument mapping itself.
// Every key of the JSON object passes through untouched, whatever its name.
// A defaults mapping supplied via WithDefaults fills keys the file omits.
func BindMap[R any](fn func(map[string]any) (R, error), options ...Option) Func[R] {
	config := NewConfig(options...)

	return func(path string) (R, error) {
		mapping, err := readMapping(path)
		if err != nil {
			var zero R
			return zero, err
		}

		if config.Defaults != nil {
			mapping, err = overlayDefaults(config.Defaults, mapping)
			if err != nil {
				var zero R
				return zero, err
			}
		}

		return fn(mapping)
	}
}

// Load populates an argument record of type A straight from the file, the
// constructor analogue of Bind.
func Load[A any](path string, options ...Option) (*A, error) {
	return loadArgs[A](NewConfig(options...), path)
}

// loadArgs materializes a fresh argument record from the file at path.
func loadArgs[A any](config *Config, path string) (*A, error) {
	mapping, err := readMapping(path)
	if err != nil {
		return nil, err
	}

	args := new(A)
	if err := applyDefaults(config, args); err != nil {
		return nil, err
	}

	if err := expand(config, mapping, args); err != nil {
		return nil, err
	}

	if v, ok := any(args).(Validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	return args, nil
}

// readMapping runs the read and decode pipeline and returns the file's
// top-level JSON object.
func readMapping(path string) (map[string]any, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	value, err := decodeValue(path, data)
	if err != nil {
		return nil, err
	}

	return asMapping(path, value)
}

// overlayDefaults lays the file's keys over a copy of the defaults mapping.
func overlayDefaults(defaults any, mapping map[string]any) (map[string]any, error) {
	base, ok := defaults.(map[string]any)
	if !ok {
		return nil, errBuilder(KindArgs).
			Errorf("defaults type %T does not match argument type map[string]any", defaults)
	}

	merged := make(map[string]any, len(base)+len(mapping))
	for key, value := range base {
		merged[key] = value
	}

	for key, value := range mapping {
		merged[key] = value
	}

	return merged, nil
}
