package argfile

import (
	"sort"
	"strings"

	"github.com/samber/oops"
)

// Kind classifies the failures the binder itself produces. Errors returned by
// the wrapped callable pass through unclassified.
type Kind string

const (
	// KindFile is a file-access failure: the path does not exist, is not
	// readable, or access was denied. The platform error remains reachable
	// through errors.Is/As.
	KindFile Kind = "file"

	// KindText means the file's bytes are not valid UTF-8 text.
	KindText Kind = "text"

	// KindSyntax means the file decoded as text but is not well-formed JSON.
	// The message carries the line, column, and byte offset of the first
	// parse failure.
	KindSyntax Kind = "syntax"

	// KindArgs is a call-time binding failure: an unexpected argument, a
	// missing required argument, a top-level value that is not a JSON
	// object, or a value the argument's type cannot hold.
	KindArgs Kind = "args"
)

// KindOf returns the failure kind carried by err, or the empty Kind for
// errors the binder did not produce.
func KindOf(err error) Kind {
	if o, ok := oops.AsOops(err); ok {
		if code, ok := o.Code().(string); ok {
			return Kind(code)
		}
	}
	return ""
}

func errBuilder(kind Kind) oops.OopsErrorBuilder {
	return oops.Code(string(kind))
}

func errUnexpectedArguments(keys []string) error {
	sort.Strings(keys)
	return errBuilder(KindArgs).
		With("arguments", keys).
		Errorf("unexpected %s %s", plural("argument", keys), quoteJoin(keys))
}

func errMissingArguments(keys []string) error {
	sort.Strings(keys)
	return errBuilder(KindArgs).
		With("arguments", keys).
		Errorf("missing required %s %s", plural("argument", keys), quoteJoin(keys))
}

func plural(word string, keys []string) string {
	if len(keys) == 1 {
		return word
	}
	return word + "s"
}

func quoteJoin(keys []string) string {
	quoted := make([]string, len(keys))
	for i, key := range keys {
		quoted[i] = "\"" + key + "\""
	}
	return strings.Join(quoted, ", ")
}
