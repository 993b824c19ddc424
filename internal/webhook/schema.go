// internal/webhook/schema.go
package webhook

import "github.com/xeipuuv/gojsonschema"

// requestSchema validates the fulfillment payload before it reaches the
// pipeline: queryText is mandatory, parameters follow the agent platform's
// entity shapes (scalar, string, or amount/unit objects).
const requestSchema = `{
  "type": "object",
  "required": ["queryResult"],
  "properties": {
    "responseId": {"type": "string"},
    "session": {"type": "string"},
    "queryResult": {
      "type": "object",
      "required": ["queryText"],
      "properties": {
        "queryText": {"type": "string", "minLength": 1},
        "parameters": {
          "type": "object",
          "properties": {
            "operator": {"type": "string"},
            "plan_type": {"type": "string"},
            "budget": {
              "anyOf": [
                {"type": "number"},
                {"type": "string"},
                {
                  "type": "object",
                  "properties": {
                    "amount": {"type": "number"},
                    "unit": {"type": "string"}
                  }
                }
              ]
            },
            "duration": {
              "anyOf": [
                {"type": "number"},
                {"type": "string"},
                {
                  "type": "object",
                  "properties": {
                    "amount": {"type": "number"},
                    "unit": {"type": "string"}
                  }
                }
              ]
            },
            "offset": {"type": "number"}
          }
        },
        "intent": {
          "type": "object",
          "properties": {
            "name": {"type": "string"},
            "displayName": {"type": "string"}
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(requestSchema)

// validateRequest runs the payload through the JSON schema and returns the
// first validation message on failure.
func validateRequest(body []byte) (string, bool) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err.Error(), false
	}
	if result.Valid() {
		return "", true
	}
	if errs := result.Errors(); len(errs) > 0 {
		return errs[0].String(), false
	}
	return "request failed schema validation", false
}
