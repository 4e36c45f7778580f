package argfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// readDocument loads the argument file and verifies it holds UTF-8 text.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errBuilder(KindFile).Wrapf(err, "failed to read argument file: %s", path)
	}

	if idx := invalidByteOffset(data); idx >= 0 {
		return nil, errBuilder(KindText).
			With("path", path).
			With("offset", idx).
			Errorf("argument file is not valid UTF-8 text: byte 0x%02x at offset %d", data[idx], idx)
	}

	return data, nil
}

// decodeValue parses the document into its generic JSON form.
func decodeValue(path string, data []byte) (any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			line, column, offset := positionAt(data, syntaxErr.Offset)

			return nil, errBuilder(KindSyntax).
				With("path", path).
				With("line", line).
				With("column", column).
				With("offset", offset).
				Wrapf(err, "not well-formed JSON at line %d column %d (offset %d)", line, column, offset)
		}

		return nil, errBuilder(KindSyntax).With("path", path).Wrapf(err, "not well-formed JSON")
	}

	return value, nil
}

// asMapping requires the decoded document to be a JSON object.
func asMapping(path string, value any) (map[string]any, error) {
	mapping, ok := value.(map[string]any)
	if !ok {
		return nil, errBuilder(KindArgs).
			With("path", path).
			Errorf("arguments must be a JSON object, got %s", jsonTypeName(value))
	}

	return mapping, nil
}

// invalidByteOffset returns the index of the first byte that is not part of a
// valid UTF-8 sequence, or -1 when the data is valid text.
func invalidByteOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}

		i += size
	}

	return -1
}

// positionAt converts the byte count reported by the JSON decoder into a
// 1-based line and column plus a 0-based byte offset. The decoder counts
// bytes consumed, so the byte that stopped it sits one position earlier.
func positionAt(data []byte, consumed int64) (line int, column int, offset int) {
	offset = int(consumed) - 1
	if offset < 0 {
		offset = 0
	}

	if offset > len(data) {
		offset = len(data)
	}

	line = 1 + bytes.Count(data[:offset], []byte{'\n'})
	column = offset - bytes.LastIndexByte(data[:offset], '\n')

	return line, column, offset
}

func jsonTypeName(value any) string {
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
