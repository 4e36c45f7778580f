// Package argfile invokes callables with their arguments sourced from a JSON
// file instead of the call site. A callable is wrapped once with Bind (or one
// of its variants) and the bound form takes a single file path; each call
// reads the file, decodes the JSON object it contains, binds the object's
// keys onto the callable's argument struct, and returns the callable's result
// unchanged. Nothing is cached between calls and nothing is written to disk.
package argfile

// Func is a bound callable: it reads the argument file at path, binds its
// contents, invokes the wrapped callable, and returns its result.
type Func[R any] func(path string) (R, error)

// Must converts a bound callable into a panicking form for scripts and
// program setup where a bad argument file is fatal.
func Must[R any](f Func[R]) func(path string) R {
	return func(path string) R {
		result, err := f(path)
		if err != nil {
			panic(err)
		}
		return result
	}
}
