package messaging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/paperpilot/internal/arxiv"
	"github.com/at-ishikawa/paperpilot/internal/dictionary"
)

func TestResponse_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		response Response
		want     string
	}{
		{
			name: "definition",
			response: DefinitionResponse([]dictionary.Entry{
				{
					Word: "entropy",
					Meanings: []dictionary.Meaning{
						{PartOfSpeech: "noun", Definitions: []dictionary.Definition{{Text: "A measure of disorder."}}},
					},
				},
			}),
			want: `{"ok":true,"type":"lookupDefinition","entries":[{"word":"entropy","phonetics":null,"meanings":[{"partOfSpeech":"noun","definitions":[{"text":"A measure of disorder."}]}]}]}`,
		},
		{
			name:     "definition without entries",
			response: Response{OK: true, Type: TypeLookupDefinition},
			want:     `{"ok":true,"type":"lookupDefinition","entries":[]}`,
		},
		{
			name:     "arxiv without results",
			response: ArxivResponse(nil),
			want:     `{"ok":true,"type":"searchArxiv","results":[]}`,
		},
		{
			name:     "error carries no payload",
			response: Response{OK: false, Type: TypeSearchArxiv, Results: []arxiv.Entry{{ID: "x"}}, Error: "arXiv error 503"},
			want:     `{"ok":false,"error":"arXiv error 503"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.response)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestResponse_MarshalJSON_UnknownType(t *testing.T) {
	_, err := json.Marshal(Response{OK: true, Type: "translate"})
	assert.Error(t, err)
}

func TestResponse_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Response
		wantErr bool
	}{
		{
			name: "arxiv results",
			data: `{"ok":true,"type":"searchArxiv","results":[{"id":"http://arxiv.org/abs/1706.03762v7","title":"Attention Is All You Need","summary":"","authors":["Ashish Vaswani"],"link":"http://arxiv.org/abs/1706.03762v7"}]}`,
			want: ArxivResponse([]arxiv.Entry{
				{
					ID:      "http://arxiv.org/abs/1706.03762v7",
					Title:   "Attention Is All You Need",
					Authors: []string{"Ashish Vaswani"},
					Link:    "http://arxiv.org/abs/1706.03762v7",
				},
			}),
		},
		{
			name: "definition with missing entries",
			data: `{"ok":true,"type":"lookupDefinition"}`,
			want: DefinitionResponse(nil),
		},
		{
			name: "error drops any payload",
			data: `{"ok":false,"type":"lookupDefinition","entries":[{"word":"x"}],"error":"Dictionary error 500"}`,
			want: ErrorResponse("Dictionary error 500"),
		},
		{
			name:    "missing ok",
			data:    `{"type":"lookupDefinition","entries":[]}`,
			wantErr: true,
		},
		{
			name:    "unknown success type",
			data:    `{"ok":true,"type":"translate"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			data:    `ok`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Response
			err := json.Unmarshal([]byte(tt.data), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_JSON(t *testing.T) {
	got, err := json.Marshal(DefineRequest("entropy"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"lookupDefinition","term":"entropy"}`, string(got))

	got, err = json.Marshal(SearchArxivRequest("diffusion models", 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"searchArxiv","query":"diffusion models"}`, string(got))
}
