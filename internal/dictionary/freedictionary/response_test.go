package freedictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []Response
		wantErr bool
	}{
		{
			name: "single entry",
			body: `[{
				"word": "hello",
				"phonetic": "həˈləʊ",
				"phonetics": [{"text": "həˈləʊ", "audio": "//ssl.gstatic.com/hello.mp3"}, {"text": "hɛˈləʊ"}],
				"meanings": [{
					"partOfSpeech": "exclamation",
					"definitions": [{"definition": "used as a greeting", "example": "hello there, Katie!", "synonyms": [], "antonyms": []}],
					"synonyms": ["hi"]
				}]
			}]`,
			want: []Response{
				{
					Word:     "hello",
					Phonetic: "həˈləʊ",
					Phonetics: []Phonetic{
						{Text: "həˈləʊ", Audio: "//ssl.gstatic.com/hello.mp3"},
						{Text: "hɛˈləʊ"},
					},
					Meanings: []Meaning{
						{
							PartOfSpeech: "exclamation",
							Definitions: []Definition{
								{Definition: "used as a greeting", Example: "hello there, Katie!", Synonyms: []string{}, Antonyms: []string{}},
							},
							Synonyms: []string{"hi"},
						},
					},
				},
			},
		},
		{
			name: "empty array",
			body: `[]`,
			want: []Response{},
		},
		{
			name:    "not-found object is not an array",
			body:    `{"title": "No Definitions Found"}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			body:    `[{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNotFound(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    NotFound
		wantErr bool
	}{
		{
			name: "upstream not-found body",
			body: `{"title":"No Definitions Found","message":"Sorry pal, we couldn't find definitions for the word you were looking for.","resolution":"You can try the search again at later time or head to the web instead."}`,
			want: NotFound{
				Title:      "No Definitions Found",
				Message:    "Sorry pal, we couldn't find definitions for the word you were looking for.",
				Resolution: "You can try the search again at later time or head to the web instead.",
			},
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNotFound([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
