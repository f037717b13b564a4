// Package document loads JSON input for extraction and optionally scopes it
// to a sub-document selected by a JSONPath expression.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/theory/jsonpath"
)

var (
	// ErrInvalidJSON indicates the input is not a single well-formed JSON value.
	ErrInvalidJSON = errors.New("invalid JSON document")

	// ErrRootNotFound indicates a root path expression matched nothing.
	ErrRootNotFound = errors.New("root path matched nothing")
)

// Decode reads one JSON value from r. Numbers decode as json.Number so
// extracted fields keep their literal form.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return doc, nil
}

// Parse decodes a JSON value held in memory.
func Parse(data []byte) (any, error) {
	return Decode(bytes.NewReader(data))
}

// Select scopes doc to the first value matched by a JSONPath expression
// (e.g. "$.data.items"). The expression narrows the input before extraction;
// the format language itself stays path-free.
func Select(doc any, pathExpr string) (any, error) {
	path, err := jsonpath.Parse(pathExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid root path %q: %w", pathExpr, err)
	}

	results := path.Select(doc)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, pathExpr)
	}
	return results[0], nil
}
