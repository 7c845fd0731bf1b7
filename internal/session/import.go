package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/gjson"

	"github.com/verte-zerg/spellbee/internal/model"
)

const importSchemaURL = "schema://spellbee/session.json"

const importSchema = `{
  "type": "object",
  "required": ["name", "wordsAsked", "attempts"],
  "properties": {
    "name": {"type": "string", "minLength": 1, "pattern": "\\S"},
    "wordListName": {"type": "string"},
    "wordsAsked": {"type": "array", "items": {"type": "string"}},
    "attempts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["word", "isCorrect"],
        "properties": {
          "word": {"type": "string"},
          "userSpelling": {"type": "string"},
          "isCorrect": {"type": "boolean"},
          "timestamp": {"type": "string"}
        }
      }
    },
    "isCompleted": {"type": "boolean"},
    "correctCount": {"type": "integer", "minimum": 0},
    "incorrectCount": {"type": "integer", "minimum": 0},
    "mode": {"enum": ["student", "tutor"]}
  }
}`

var compiledImportSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(importSchema))
	if err != nil {
		return nil, fmt.Errorf("parse import schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(importSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add import schema: %w", err)
	}
	return c.Compile(importSchemaURL)
})

// ParseImport validates an exported session document and decodes it.
// Missing counters are derived from the attempts; counters that disagree with
// the attempts are rejected.
func ParseImport(data []byte) (model.TestSession, error) {
	schema, err := compiledImportSchema()
	if err != nil {
		return model.TestSession{}, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return model.TestSession{}, model.NewValidationError("invalid session file: %v", err)
	}
	if err := schema.Validate(inst); err != nil {
		return model.TestSession{}, model.NewValidationError("invalid session file: %s", validationReason(err))
	}

	var sess model.TestSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.TestSession{}, model.NewValidationError("invalid session file: %v", err)
	}
	if len(sess.Attempts) > len(sess.WordsAsked) {
		return model.TestSession{}, model.NewValidationError(
			"invalid session file: %d attempts for %d words", len(sess.Attempts), len(sess.WordsAsked))
	}

	correct := 0
	for _, a := range sess.Attempts {
		if a.IsCorrect {
			correct++
		}
	}
	incorrect := len(sess.Attempts) - correct
	if gjson.GetBytes(data, "correctCount").Exists() && sess.CorrectCount != correct {
		return model.TestSession{}, model.NewValidationError(
			"invalid session file: correctCount is %d but %d attempts are correct", sess.CorrectCount, correct)
	}
	if gjson.GetBytes(data, "incorrectCount").Exists() && sess.IncorrectCount != incorrect {
		return model.TestSession{}, model.NewValidationError(
			"invalid session file: incorrectCount is %d but %d attempts are incorrect", sess.IncorrectCount, incorrect)
	}
	sess.CorrectCount = correct
	sess.IncorrectCount = incorrect
	sess.TotalWords = len(sess.WordsAsked)
	if sess.Mode == "" {
		sess.Mode = model.ModeStudent
	}
	return sess, nil
}

// validationReason flattens the multi-line schema error onto one line and
// drops the schema URL header.
func validationReason(err error) string {
	lines := strings.Split(err.Error(), "\n")
	reasons := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "jsonschema validation failed") {
			continue
		}
		reasons = append(reasons, strings.TrimPrefix(line, "- "))
	}
	if len(reasons) == 0 {
		return err.Error()
	}
	return strings.Join(reasons, "; ")
}
