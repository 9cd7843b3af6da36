package overlay

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/paperpilot/internal/messaging"
	"github.com/at-ishikawa/paperpilot/internal/preferences"
)

// TextRenderer draws the same panel as Render for a terminal.
type TextRenderer struct {
	writer io.Writer
	bold   *color.Color
	italic *color.Color
	muted  *color.Color
	red    *color.Color
	link   *color.Color
}

func NewTextRenderer(writer io.Writer) *TextRenderer {
	return &TextRenderer{
		writer: writer,
		bold:   color.New(color.Bold),
		italic: color.New(color.Italic, color.FgHiBlack),
		muted:  color.New(color.FgHiBlack),
		red:    color.New(color.FgRed),
		link:   color.New(color.FgBlue, color.Underline),
	}
}

func (r *TextRenderer) Render(state State, enabled bool, prefs preferences.Preferences) error {
	if !enabled {
		return nil
	}

	switch s := state.(type) {
	case Pending:
		if _, err := r.bold.Fprintln(r.writer, s.Selection.Text); err != nil {
			return err
		}
		_, err := fmt.Fprintln(r.writer, LoadingText)
		return err
	case Failed:
		if _, err := r.bold.Fprintln(r.writer, s.Selection.Text); err != nil {
			return err
		}
		_, err := r.red.Fprintln(r.writer, s.Message)
		return err
	case Resolved:
		if _, err := r.bold.Fprintln(r.writer, s.Selection.Text); err != nil {
			return err
		}
		if s.Kind == messaging.TypeSearchArxiv {
			return r.renderResults(s, prefs.ArxivMaxResults)
		}
		return r.renderEntries(s, prefs.MaxDefinitions)
	default:
		return nil
	}
}

func (r *TextRenderer) renderEntries(s Resolved, maxMeanings int) error {
	if len(s.Entries) == 0 {
		_, err := r.muted.Fprintln(r.writer, NoResultsText)
		return err
	}

	for _, meaning := range firstN(s.Entries[0].Meanings, maxMeanings) {
		if _, err := r.italic.Fprintf(r.writer, "  %s\n", meaning.PartOfSpeech); err != nil {
			return err
		}
		for _, definition := range firstN(meaning.Definitions, definitionsPerMeaning) {
			if _, err := fmt.Fprintf(r.writer, "    - %s\n", definition.Text); err != nil {
				return err
			}
			if definition.Example != "" {
				if _, err := r.muted.Fprintf(r.writer, "      “%s”\n", definition.Example); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *TextRenderer) renderResults(s Resolved, maxResults int) error {
	if len(s.Results) == 0 {
		_, err := r.muted.Fprintln(r.writer, NoResultsText)
		return err
	}

	for i, result := range firstN(s.Results, maxResults) {
		if _, err := r.bold.Fprintf(r.writer, "%d. %s\n", i+1, result.Title); err != nil {
			return err
		}
		if len(result.Authors) > 0 {
			if _, err := r.muted.Fprintf(r.writer, "   %s\n", strings.Join(result.Authors, ", ")); err != nil {
				return err
			}
		}
		if result.Summary != "" {
			if _, err := fmt.Fprintf(r.writer, "   %s\n", truncate(result.Summary, summaryLength)); err != nil {
				return err
			}
		}
		if _, err := r.link.Fprintf(r.writer, "   %s\n", result.Link); err != nil {
			return err
		}
	}
	return nil
}
