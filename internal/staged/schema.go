package staged

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const identitySchema = `{
  "type": "object",
  "minProperties": 1,
  "properties": {
    "name":     {"type": ["string", "null"]},
    "email":    {"type": ["string", "null"]},
    "phone":    {"type": ["string", "null"]},
    "location": {"type": ["string", "null"]}
  }
}`

const skillsSchema = `{
  "type": "object",
  "required": ["skills"],
  "properties": {
    "skills":          {"type": "array", "items": {"type": "string"}},
    "domain":          {"type": ["string", "null"]},
    "yearsExperience": {"type": ["integer", "number", "string", "null"]}
  }
}`

const historySchema = `{
  "type": "object",
  "minProperties": 1,
  "properties": {
    "workHistory": {"type": "array", "items": {"type": "object"}},
    "education":   {"type": "array", "items": {"type": "object"}},
    "languages":   {"type": "array", "items": {"type": "string"}},
    "summary":     {"type": ["string", "null"]}
  }
}`

// answerSchema checks the structure of a decoded model answer.
type answerSchema struct {
	schema *gojsonschema.Schema
}

func mustSchema(src string) answerSchema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile answer schema: %v", err))
	}
	return answerSchema{schema: s}
}

// SchemaError lists every structural mismatch of one answer.
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	return "answer does not match schema: " + strings.Join(e.Fields, "; ")
}

func (s answerSchema) check(payload map[string]any) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("validate answer: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Fields: make([]string, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Fields = append(schemaErr.Fields, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return schemaErr
}
