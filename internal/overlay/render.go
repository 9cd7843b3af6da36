package overlay

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/at-ishikawa/paperpilot/internal/arxiv"
	"github.com/at-ishikawa/paperpilot/internal/dictionary"
	"github.com/at-ishikawa/paperpilot/internal/messaging"
	"github.com/at-ishikawa/paperpilot/internal/preferences"
	"github.com/at-ishikawa/paperpilot/internal/selection"
)

const (
	RootID = "paperpilot-overlay"

	// Offset is the distance in pixels between the pointer and the panel.
	Offset = 12
	// ZIndex keeps the panel above any page content.
	ZIndex = 2147483647

	LoadingText   = "Loading…"
	NoResultsText = "No results found."

	definitionsPerMeaning = 2
	summaryLength         = 200

	panelStyle = "position: fixed; top: %gpx; left: %gpx; z-index: %d; max-width: 360px; " +
		"background: white; border: 1px solid #e5e7eb; border-radius: 8px; " +
		"box-shadow: 0 8px 24px rgba(0,0,0,0.15); padding: 12px; color: #111827; " +
		"font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; font-size: 14px"
	mutedStyle = "color: #6b7280"
	errorStyle = "color: #b91c1c"
)

// Render returns the panel for state, or nil when nothing should be shown.
func Render(state State, enabled bool, prefs preferences.Preferences) *html.Node {
	if !enabled {
		return nil
	}

	var (
		sel  selection.Selection
		body []*html.Node
	)
	switch s := state.(type) {
	case Pending:
		sel = s.Selection
		body = []*html.Node{element(atom.Div, "paperpilot-loading", "", text(LoadingText))}
	case Failed:
		sel = s.Selection
		body = []*html.Node{element(atom.Div, "paperpilot-error", errorStyle, text(s.Message))}
	case Resolved:
		sel = s.Selection
		if s.Kind == messaging.TypeSearchArxiv {
			body = renderResults(s.Results, prefs.ArxivMaxResults)
		} else {
			body = renderEntries(s.Entries, prefs.MaxDefinitions)
		}
	default:
		return nil
	}

	panel := element(atom.Div, "", fmt.Sprintf(panelStyle, sel.Point.Y+Offset, sel.Point.X+Offset, ZIndex))
	panel.Attr = append(panel.Attr, html.Attribute{Key: "id", Val: RootID})
	panel.AppendChild(element(atom.Div, "paperpilot-term", "font-weight: 600; margin-bottom: 6px", text(sel.Text)))
	for _, n := range body {
		panel.AppendChild(n)
	}
	return panel
}

// RenderHTML is Render serialized; an empty string means nothing is shown.
func RenderHTML(state State, enabled bool, prefs preferences.Preferences) (string, error) {
	node := Render(state, enabled, prefs)
	if node == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", fmt.Errorf("html.Render > %w", err)
	}
	return buf.String(), nil
}

// Only the first entry is shown, like the upstream's primary sense.
func renderEntries(entries []dictionary.Entry, maxMeanings int) []*html.Node {
	if len(entries) == 0 {
		return []*html.Node{element(atom.Div, "paperpilot-empty", mutedStyle, text(NoResultsText))}
	}

	list := element(atom.Div, "paperpilot-meanings", "display: grid; gap: 8px")
	for _, meaning := range firstN(entries[0].Meanings, maxMeanings) {
		group := element(atom.Div, "paperpilot-meaning", "")
		group.AppendChild(element(atom.Div, "paperpilot-part-of-speech", "font-style: italic; "+mutedStyle, text(meaning.PartOfSpeech)))
		items := element(atom.Ul, "", "margin: 0; padding-left: 18px")
		for _, definition := range firstN(meaning.Definitions, definitionsPerMeaning) {
			item := element(atom.Li, "paperpilot-definition", "", text(definition.Text))
			if definition.Example != "" {
				item.AppendChild(element(atom.Div, "paperpilot-example", mutedStyle, text("“"+definition.Example+"”")))
			}
			items.AppendChild(item)
		}
		group.AppendChild(items)
		list.AppendChild(group)
	}
	return []*html.Node{list}
}

func renderResults(results []arxiv.Entry, maxResults int) []*html.Node {
	if len(results) == 0 {
		return []*html.Node{element(atom.Div, "paperpilot-empty", mutedStyle, text(NoResultsText))}
	}

	list := element(atom.Div, "paperpilot-results", "display: grid; gap: 12px")
	for _, result := range firstN(results, maxResults) {
		card := element(atom.Div, "paperpilot-result", "border: 1px solid #e5e7eb; border-radius: 8px; padding: 12px")
		card.AppendChild(element(atom.Div, "paperpilot-title", "font-weight: 600; margin-bottom: 6px", text(result.Title)))
		card.AppendChild(element(atom.Div, "paperpilot-authors", mutedStyle+"; font-size: 12px", text(strings.Join(result.Authors, ", "))))
		if result.Summary != "" {
			card.AppendChild(element(atom.Div, "paperpilot-summary", "font-size: 13px", text(truncate(result.Summary, summaryLength))))
		}
		link := element(atom.A, "paperpilot-link", "color: #2563eb", text("Open paper →"))
		link.Attr = append(link.Attr,
			html.Attribute{Key: "href", Val: result.Link},
			html.Attribute{Key: "target", Val: "_blank"},
			html.Attribute{Key: "rel", Val: "noreferrer"},
		)
		card.AppendChild(link)
		list.AppendChild(card)
	}
	return []*html.Node{list}
}

func element(a atom.Atom, class, style string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	if style != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: style})
	}
	for _, child := range children {
		n.AppendChild(child)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func firstN[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
