package exchange

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed export.schema.json
var schemaJSON string

const schemaURL = "https://polymath.local/export.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("adding export schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Decode parses and validates an Export Document. Malformed input fails
// closed with a *ValidationError; nothing is partially populated.
func Decode(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ValidationError{Problems: []Problem{{Message: fmt.Sprintf("malformed JSON: %v", err)}}}
	}
	if _, ok := raw.(map[string]any); !ok {
		return nil, &ValidationError{Problems: []Problem{{Message: "document must be a JSON object"}}}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling export schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, mapSchemaError(err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Problems: []Problem{{Message: fmt.Sprintf("decoding document: %v", err)}}}
	}
	if problems := Validate(&doc); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return &doc, nil
}

// Encode renders a document as indented UTF-8 JSON.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export document: %w", err)
	}
	return append(data, '\n'), nil
}

// mapSchemaError flattens a jsonschema error tree into leaf problems.
func mapSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Problems: []Problem{{Message: err.Error()}}}
	}
	var problems []Problem
	collectSchemaProblems(ve, &problems)
	if len(problems) == 0 {
		problems = append(problems, Problem{Message: ve.Message})
	}
	return &ValidationError{Problems: problems}
}

func collectSchemaProblems(err *jsonschema.ValidationError, out *[]Problem) {
	if len(err.Causes) == 0 {
		*out = append(*out, Problem{Path: pointerToPath(err.InstanceLocation), Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaProblems(cause, out)
	}
}

// pointerToPath turns "/progress/algebra-1" into "progress.algebra-1".
func pointerToPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return strings.Join(parts, ".")
}
