// https://dictionaryapi.dev/
package freedictionary

import (
	"encoding/json"
	"fmt"
)

// Response is one record of the array returned by GET /api/v2/entries/en/{word}.
type Response struct {
	Word      string     `json:"word"`
	Phonetic  string     `json:"phonetic,omitempty"`
	Phonetics []Phonetic `json:"phonetics"`
	Origin    string     `json:"origin,omitempty"`
	Meanings  []Meaning  `json:"meanings"`
}

type Phonetic struct {
	Text  string `json:"text,omitempty"`
	Audio string `json:"audio,omitempty"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
	Synonyms     []string     `json:"synonyms,omitempty"`
	Antonyms     []string     `json:"antonyms,omitempty"`
}

type Definition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example,omitempty"`
	Synonyms   []string `json:"synonyms,omitempty"`
	Antonyms   []string `json:"antonyms,omitempty"`
}

// NotFound is the body sent along with a 404.
type NotFound struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	Resolution string `json:"resolution"`
}

// Parse decodes a successful response body.
func Parse(body []byte) ([]Response, error) {
	var responses []Response
	if err := json.Unmarshal(body, &responses); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return responses, nil
}

// ParseNotFound decodes the body of a 404 response.
func ParseNotFound(body []byte) (NotFound, error) {
	var notFound NotFound
	if err := json.Unmarshal(body, &notFound); err != nil {
		return NotFound{}, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return notFound, nil
}
