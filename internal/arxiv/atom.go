package arxiv

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/at-ishikawa/paperpilot/internal/lookup"
)

const htmlLinkType = "text/html"

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

// Pointers tell a missing element apart from an empty one.
type atomEntry struct {
	ID         *string        `xml:"id"`
	Title      *string        `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  *string        `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// ParseAtom extracts the entries of an arXiv Atom feed in document order.
// Entries without an id or a title are dropped.
func ParseAtom(feed []byte) ([]Entry, error) {
	var parsed atomFeed
	decoder := xml.NewDecoder(bytes.NewReader(feed))
	decoder.Strict = false
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoder.Decode > %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		entry, ok := e.toEntry()
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e atomEntry) toEntry() (Entry, bool) {
	if e.ID == nil || e.Title == nil {
		return Entry{}, false
	}
	id := strings.TrimSpace(*e.ID)
	title := lookup.CollapseSpace(*e.Title)
	if id == "" || title == "" {
		return Entry{}, false
	}

	entry := Entry{
		ID:      id,
		Title:   title,
		Summary: lookup.CollapseSpace(e.Summary),
		Authors: make([]string, 0, len(e.Authors)),
		Link:    id,
	}
	for _, author := range e.Authors {
		entry.Authors = append(entry.Authors, strings.TrimSpace(author.Name))
	}
	for _, link := range e.Links {
		if link.Type == htmlLinkType && link.Href != "" {
			entry.Link = link.Href
			break
		}
	}
	if e.Published != nil {
		entry.Published = strings.TrimSpace(*e.Published)
	}
	for _, category := range e.Categories {
		if category.Term != "" {
			entry.Categories = append(entry.Categories, category.Term)
		}
	}
	return entry, true
}
