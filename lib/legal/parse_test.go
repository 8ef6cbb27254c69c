package legal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		expectedForm   responseForm
		candidateCount int
	}{
		{
			name:           "object with entities field",
			raw:            `{"entities": [{"name": "Budi", "role": "defendant", "confidence": 0.9}]}`,
			expectedForm:   formObject,
			candidateCount: 1,
		},
		{
			name:           "bare list",
			raw:            `[{"name": "Budi", "role": "defendant"}, {"name": "Sari", "role": "plaintiff"}]`,
			expectedForm:   formBareList,
			candidateCount: 2,
		},
		{
			name:         "object without entities field",
			raw:          `{"people": []}`,
			expectedForm: formInvalid,
		},
		{
			name:         "code fenced json is a parse failure",
			raw:          "```json\n{\"entities\": []}\n```",
			expectedForm: formInvalid,
		},
		{
			name:         "prose is a parse failure",
			raw:          "Here are the entities I found: none.",
			expectedForm: formInvalid,
		},
		{
			name:         "empty response",
			raw:          "",
			expectedForm: formInvalid,
		},
		{
			name:         "truncated json",
			raw:          `{"entities": [{"name": "Budi"`,
			expectedForm: formInvalid,
		},
		{
			name:           "surrounding whitespace tolerated",
			raw:            "\n  {\"entities\": []}  \n",
			expectedForm:   formObject,
			candidateCount: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseResponse(tt.raw)
			assert.Equal(t, tt.expectedForm, got.form)
			assert.Len(t, got.candidates, tt.candidateCount)
		})
	}
}

func TestParseBatchResponse(t *testing.T) {
	blocks, ok := parseBatchResponse(`{"results": [
		{"text_index": 2, "entities": [{"name": "Sari"}]},
		{"text_index": 1, "entities": []}
	]}`)
	assert.True(t, ok)
	assert.Len(t, blocks, 2)
	assert.Equal(t, 2, blocks[0].TextIndex)
	assert.Len(t, blocks[0].Entities, 1)

	_, ok = parseBatchResponse(`{"entities": []}`)
	assert.False(t, ok)

	_, ok = parseBatchResponse("not json at all")
	assert.False(t, ok)
}
