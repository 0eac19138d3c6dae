package calculateroute

import (
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"aucta-logistics/internal/common/errors"
)

// inputSchema guards the variable shapes before they reach the engine.
// Process instances carry unrelated variables alongside ours, so unknown
// top-level properties are allowed.
const inputSchema = `{
	"type": "object",
	"required": ["shipment"],
	"properties": {
		"shipment": {
			"type": "object",
			"required": ["tier", "sender", "buyer", "declaredValue"],
			"properties": {
				"id": {"type": "string"},
				"tier": {"type": "integer", "enum": [2, 3]},
				"sender": {
					"type": "object",
					"required": ["city"],
					"properties": {
						"name": {"type": "string"},
						"address": {"type": "string"},
						"city": {"type": "string", "minLength": 1},
						"country": {"type": "string"}
					}
				},
				"buyer": {
					"type": "object",
					"required": ["city"],
					"properties": {
						"name": {"type": "string"},
						"address": {"type": "string"},
						"city": {"type": "string", "minLength": 1},
						"country": {"type": "string"}
					}
				},
				"declaredValue": {"type": ["string", "number"]},
				"weightKg": {"type": "number", "minimum": 0},
				"fragility": {"type": "string", "enum": ["low", "medium", "high"]},
				"slaTargetDate": {"type": "string"},
				"pickupWindowStart": {"type": "string"}
			}
		},
		"hubSnapshot": {"type": "array"},
		"sessionHardCap": {"type": "integer", "minimum": 1},
		"forceRefresh": {"type": "boolean"}
	}
}`

var inputSchemaLoader = gojsonschema.NewStringLoader(inputSchema)

// ValidateInput checks the raw job variables against the input schema.
func ValidateInput(variables map[string]interface{}) error {
	result, err := gojsonschema.Validate(inputSchemaLoader, gojsonschema.NewGoLoader(variables))
	if err != nil {
		return &errors.StandardError{
			Code:      errors.ErrCodeValidationFailed,
			Message:   "Input validation failed",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, resErr := range result.Errors() {
			msgs = append(msgs, resErr.String())
		}
		return &errors.StandardError{
			Code:      errors.ErrCodeValidationFailed,
			Message:   "Input validation failed",
			Details:   fmt.Sprintf("validation errors: %v", msgs),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	return nil
}
