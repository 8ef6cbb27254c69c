package legal

import (
	"encoding/json"
	"strings"
)

// responseForm tags the shape the completion service answered with. The
// prompt asks for an object carrying an "entities" list, but a bare list
// shows up often enough that it is accepted as well. Anything else,
// including JSON wrapped in code fences or prose, is a parse failure.
type responseForm int

const (
	formObject responseForm = iota
	formBareList
	formInvalid
)

type parsedResponse struct {
	form       responseForm
	candidates []json.RawMessage
}

// parseResponse resolves the response shape with a single dispatch on the
// leading character, then a strict JSON parse of the whole payload.
func parseResponse(raw string) parsedResponse {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return parsedResponse{form: formInvalid}
	}

	switch raw[0] {
	case '{':
		var obj struct {
			Entities []json.RawMessage `json:"entities"`
		}
		if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj.Entities == nil {
			return parsedResponse{form: formInvalid}
		}
		return parsedResponse{form: formObject, candidates: obj.Entities}
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return parsedResponse{form: formInvalid}
		}
		return parsedResponse{form: formBareList, candidates: list}
	default:
		return parsedResponse{form: formInvalid}
	}
}

type batchBlock struct {
	TextIndex int               `json:"text_index"`
	Entities  []json.RawMessage `json:"entities"`
}

// parseBatchResponse parses the batch-shaped response: an object with a
// "results" list keyed by 1-based text_index.
func parseBatchResponse(raw string) ([]batchBlock, bool) {
	raw = strings.TrimSpace(raw)
	var obj struct {
		Results []batchBlock `json:"results"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj.Results == nil {
		return nil, false
	}
	return obj.Results, true
}
