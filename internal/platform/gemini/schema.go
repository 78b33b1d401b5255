package gemini

import (
	"github.com/phrazzld/storeboost-api/internal/generation"
	"google.golang.org/genai"
)

// responseSchema declares the output contract in Gemini's schema type.
func responseSchema() *genai.Schema {
	fields := generation.ResultSchema()
	properties := make(map[string]*genai.Schema, len(fields))
	required := make([]string, 0, len(fields))

	for _, f := range fields {
		switch f.Kind {
		case generation.KindStringList:
			properties[f.Name] = &genai.Schema{
				Type:        genai.TypeArray,
				Description: f.Description,
				Items:       &genai.Schema{Type: genai.TypeString},
			}
		default:
			properties[f.Name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: f.Description,
			}
		}
		required = append(required, f.Name)
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}
