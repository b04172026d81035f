package intelligence

import "encoding/json"

// QuestionsSchema is the JSON schema sent to the backend as the structured
// output format for a question set.
var QuestionsSchema = json.RawMessage(`{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "title": {"type": "string"},
    "goal": {"type": "string"},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string"},
          "section": {"type": "string"},
          "prompt": {"type": "string"},
          "kind": {"type": "string", "enum": ["text", "select", "multiselect", "confirm"]},
          "required": {"type": "boolean"},
          "options": {"type": "array", "items": {"type": "string"}},
          "placeholder": {"type": "string"}
        },
        "required": ["id", "section", "prompt", "kind"]
      }
    }
  },
  "required": ["goal", "questions"]
}`)
