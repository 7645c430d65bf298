// internal/common/validation/schema.go
package validation

import (
	"github.com/xeipuuv/gojsonschema"
)

// RecommendationRequestSchema validates the POST /api/recommendations body
// before it is bound to the typed request.
var RecommendationRequestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"vibe": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"cozy", "silly", "adventure", "artsy", "musical", "classic", "millennial"},
		},
		"theme": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"none", "animals", "sports", "summer", "halloween", "christmas", "winter"},
		},
		"ageGroups": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"preschool", "elementary", "tweens", "teens", "adults"},
			},
		},
		"preferences": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"avoidGriefLoss":        map[string]interface{}{"type": "boolean"},
				"avoidSubstances":       map[string]interface{}{"type": "boolean"},
				"avoidRomanceSexuality": map[string]interface{}{"type": "boolean"},
				"avoidViolenceScare":    map[string]interface{}{"type": "boolean"},
				"avoidProfanity":        map[string]interface{}{"type": "boolean"},
				"avoidProductPlacement": map[string]interface{}{"type": "boolean"},
			},
			"additionalProperties": false,
		},
		"limit": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 50,
		},
	},
	"required":             []interface{}{"vibe", "ageGroups"},
	"additionalProperties": false,
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks a decoded JSON document against a schema map.
func Validate(document map[string]interface{}, schema map[string]interface{}) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, err
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out, nil
}
