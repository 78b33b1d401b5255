package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/storeboost-api/internal/domain"
)

// ParseResult decodes the model's text payload into a GenerationResult.
//
// The payload must be a single JSON object carrying every field of the
// output schema with the declared type. Strings must be non-blank and
// bullet_points must hold at least one non-blank string. Unknown properties
// are ignored. Leading and trailing whitespace and a surrounding markdown
// code fence are tolerated.
func ParseResult(text string) (*domain.GenerationResult, error) {
	payload := stripCodeFence(strings.TrimSpace(text))
	if payload == "" {
		return nil, NewError(ErrEmptyResponse, "the AI model returned an empty response", nil)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, NewError(ErrMalformedResponse, "response is not a JSON object", err)
	}

	var result domain.GenerationResult
	targets := map[string]*string{
		FieldHeadline:        &result.Headline,
		FieldDescription:     &result.Description,
		FieldSEOTitle:        &result.SEOTitle,
		FieldMetaDescription: &result.MetaDescription,
		FieldCTALine:         &result.CTALine,
	}

	for _, field := range resultSchema {
		value, ok := raw[field.Name]
		if !ok || isNull(value) {
			return nil, NewError(ErrMalformedResponse, fmt.Sprintf("missing required field %q", field.Name), nil)
		}

		switch field.Kind {
		case KindString:
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return nil, NewError(ErrMalformedResponse, fmt.Sprintf("field %q must be a string", field.Name), err)
			}
			if strings.TrimSpace(s) == "" {
				return nil, NewError(ErrMalformedResponse, fmt.Sprintf("field %q is empty", field.Name), nil)
			}
			*targets[field.Name] = s
		case KindStringList:
			list, err := decodeStringList(field.Name, value)
			if err != nil {
				return nil, err
			}
			result.BulletPoints = list
		}
	}

	if err := result.Validate(); err != nil {
		return nil, NewError(ErrMalformedResponse, "response failed validation", err)
	}

	return &result, nil
}

func decodeStringList(name string, value json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, NewError(ErrMalformedResponse, fmt.Sprintf("field %q must be an array of strings", name), err)
	}
	if len(items) == 0 {
		return nil, NewError(ErrMalformedResponse, fmt.Sprintf("field %q is empty", name), nil)
	}

	list := make([]string, 0, len(items))
	for i, item := range items {
		var s string
		if isNull(item) {
			return nil, NewError(ErrMalformedResponse, fmt.Sprintf("field %q item %d is null", name, i), nil)
		}
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, NewError(ErrMalformedResponse, fmt.Sprintf("field %q item %d must be a string", name, i), err)
		}
		if strings.TrimSpace(s) == "" {
			return nil, NewError(ErrMalformedResponse, fmt.Sprintf("field %q item %d is empty", name, i), nil)
		}
		list = append(list, s)
	}
	return list, nil
}

func isNull(value json.RawMessage) bool {
	return strings.TrimSpace(string(value)) == "null"
}

// stripCodeFence removes a ```json ... ``` wrapper if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. "json"
		s = s[nl+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
