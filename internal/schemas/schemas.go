// Package schemas provides the embedded JSON Schemas for every record a model call
// produces, and validation of model output against them.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Schema names
const (
	JobPosting  = "job_posting"
	Resume      = "resume"
	CoverLetter = "cover_letter"
)

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// Get returns the raw schema document for a named record.
func Get(name string) (string, error) {
	data, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		return "", &SchemaLoadError{Path: name, Message: "unknown schema", Cause: err}
	}
	return string(data), nil
}

// MustGet is like Get but panics on an unknown schema name.
func MustGet(name string) string {
	s, err := Get(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Section builds a schema for one resume section wrapped in an object keyed by the
// section name, e.g. {"experience": [...]}. Definitions are carried over so $refs resolve.
func Section(section string) (string, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(MustGet(Resume)), &doc); err != nil {
		return "", &SchemaLoadError{Path: Resume, Message: "invalid resume schema", Cause: err}
	}

	props, _ := doc["properties"].(map[string]any)
	prop, ok := props[section]
	if !ok {
		return "", &SchemaLoadError{Path: Resume + "#" + section, Message: "unknown resume section"}
	}

	wrapped := map[string]any{
		"$schema":     doc["$schema"],
		"title":       section,
		"type":        "object",
		"required":    []string{section},
		"properties":  map[string]any{section: prop},
		"definitions": doc["definitions"],
	}
	out, err := json.Marshal(wrapped)
	if err != nil {
		return "", fmt.Errorf("failed to marshal section schema: %w", err)
	}
	return string(out), nil
}

// ValidateValue validates a Go value against a named schema.
// The value is serialized the same way encoding/json would send it over the wire.
func ValidateValue(name string, v any) error {
	schema, err := compile(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return fmt.Errorf("failed to validate %s: %w", name, err)
	}
	return toValidationError(result)
}

func compile(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}

	content, err := Get(name)
	if err != nil {
		return nil, err
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema does not compile", Cause: err}
	}
	compiled[name] = s
	return s, nil
}
