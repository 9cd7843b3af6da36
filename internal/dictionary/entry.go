package dictionary

import (
	"strings"

	"github.com/at-ishikawa/paperpilot/internal/dictionary/freedictionary"
	"github.com/at-ishikawa/paperpilot/internal/lookup"
)

// Entry is an immutable snapshot of one upstream dictionary record.
type Entry struct {
	Word      string     `json:"word"`
	Phonetics []Phonetic `json:"phonetics"`
	Meanings  []Meaning  `json:"meanings"`
}

type Phonetic struct {
	Text     string `json:"text,omitempty"`
	AudioURL string `json:"audioUrl,omitempty"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

type Definition struct {
	Text    string `json:"text"`
	Example string `json:"example,omitempty"`
}

func fromResponses(responses []freedictionary.Response) []Entry {
	entries := make([]Entry, 0, len(responses))
	for _, response := range responses {
		entry := Entry{
			Word:      response.Word,
			Phonetics: make([]Phonetic, 0, len(response.Phonetics)),
			Meanings:  make([]Meaning, 0, len(response.Meanings)),
		}
		for _, phonetic := range response.Phonetics {
			if phonetic.Text == "" && phonetic.Audio == "" {
				continue
			}
			entry.Phonetics = append(entry.Phonetics, Phonetic{
				Text:     phonetic.Text,
				AudioURL: audioURL(phonetic.Audio),
			})
		}
		for _, meaning := range response.Meanings {
			definitions := make([]Definition, 0, len(meaning.Definitions))
			for _, definition := range meaning.Definitions {
				definitions = append(definitions, Definition{
					Text:    lookup.CleanText(definition.Definition),
					Example: lookup.CleanText(definition.Example),
				})
			}
			entry.Meanings = append(entry.Meanings, Meaning{
				PartOfSpeech: meaning.PartOfSpeech,
				Definitions:  definitions,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}

// The upstream sometimes returns protocol-relative audio links.
func audioURL(audio string) string {
	if strings.HasPrefix(audio, "//") {
		return "https:" + audio
	}
	return audio
}
