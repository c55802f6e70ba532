package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const mcqSchemaURL = "schema://mcq.json"

// mcqSchema describes one generated question. Entries that fail it are dropped.
const mcqSchema = `{
  "type": "object",
  "required": ["question", "options", "correct", "explanation"],
  "properties": {
    "question": {"type": "string", "minLength": 1},
    "options": {"type": "array", "minItems": 4, "maxItems": 4, "items": {"type": "string", "minLength": 1}},
    "correct": {"type": "string", "enum": ["A", "B", "C", "D"]},
    "explanation": {"type": "string"}
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func mcqValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(mcqSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(mcqSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(mcqSchemaURL)
	})
	return compiled, compileErr
}

// extractJSONArray pulls the first JSON array out of a model reply, tolerating code fences
// and chatter around it.
func extractJSONArray(reply string) (string, bool) {
	text := strings.TrimSpace(reply)
	if strings.Contains(text, "```") {
		parts := strings.Split(text, "```")
		if len(parts) >= 2 {
			text = strings.TrimSpace(strings.TrimPrefix(parts[1], "json"))
		}
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// decodeMCQs parses a reply and keeps only the entries that satisfy the schema.
func decodeMCQs(reply string) ([]json.RawMessage, error) {
	raw, ok := extractJSONArray(reply)
	if !ok {
		return nil, fmt.Errorf("no json array in reply")
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	schema, err := mcqValidator()
	if err != nil {
		return nil, err
	}
	kept := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(item))
		if err != nil {
			continue
		}
		if schema.Validate(parsed) != nil {
			continue
		}
		kept = append(kept, item)
	}
	return kept, nil
}
