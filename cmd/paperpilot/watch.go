package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/paperpilot/internal/content"
	"github.com/at-ishikawa/paperpilot/internal/overlay"
	"github.com/at-ishikawa/paperpilot/internal/selection"
)

const settlePollInterval = 20 * time.Millisecond

const watchUsage = `Reads page events from stdin, one per line:
  select <x> <y> <text>   pointer released with <text> selected at (x, y)
  key <combo>             key pressed, e.g. "key alt+o"
  search <query>          search arXiv for <query>
and redraws the overlay after every change.`

func newWatchCommand() *cobra.Command {
	var (
		flags  connectionFlags
		asHTML bool
	)
	command := &cobra.Command{
		Use:   "watch",
		Short: "Drive a page from stdin events and draw its overlay",
		Long:  watchUsage,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			hotkey, err := selection.ParseHotkey(cfg.Selection.Hotkey)
			if err != nil {
				return fmt.Errorf("selection.ParseHotkey > %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			conn, err := connect(ctx, cfg, flags.embedded, resolveStore(flags.store, cfg))
			if err != nil {
				return err
			}
			defer closeConnection(conn)

			draw := newDrawer(cmd.OutOrStdout(), asHTML)
			page := content.NewPage(conn.sender, conn.preferences,
				content.WithHotkey(hotkey),
				content.WithWatcherOptions(
					selection.WithDebounce(cfg.Selection.Debounce),
					selection.WithMaxLength(cfg.Selection.MaxLength),
				),
				content.WithOnChange(draw),
			)

			done := make(chan error, 1)
			go func() {
				done <- page.Run(ctx)
			}()

			if err := feedEvents(cmd.InOrStdin(), page); err != nil {
				return err
			}
			if err := waitSettled(ctx, page, cfg.Selection.Debounce); err != nil {
				slog.Default().Warn("stopped before the last lookup finished", "error", err)
			}
			cancel()
			return <-done
		},
	}
	flags.register(command.Flags())
	command.Flags().BoolVar(&asHTML, "html", false, "print the overlay as HTML instead of text")
	return command
}

// waitSettled lets the last release pass the debounce window and its lookup
// come back.
func waitSettled(ctx context.Context, page *content.Page, debounce time.Duration) error {
	timer := time.NewTimer(debounce + settlePollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	ticker := time.NewTicker(settlePollInterval)
	defer ticker.Stop()
	for {
		view, err := page.Snapshot(ctx)
		if err != nil {
			return err
		}
		if view.State.Phase() != overlay.PhasePending {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type eventSink interface {
	Release(event selection.PointerRelease)
	KeyDown(key selection.KeyEvent)
	SearchArxiv(query string, point selection.Point)
}

func feedEvents(r io.Reader, sink eventSink) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := feedEvent(line, sink); err != nil {
			slog.Default().Warn("ignoring event", "line", line, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner.Scan > %w", err)
	}
	return nil
}

func feedEvent(line string, sink eventSink) error {
	command, rest, _ := strings.Cut(line, " ")
	switch command {
	case "select":
		fields := strings.SplitN(rest, " ", 3)
		if len(fields) < 2 {
			return fmt.Errorf("select needs <x> <y> <text>")
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("strconv.ParseFloat(%s) > %w", fields[0], err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("strconv.ParseFloat(%s) > %w", fields[1], err)
		}
		var text string
		if len(fields) == 3 {
			text = fields[2]
		}
		sink.Release(selection.PointerRelease{Text: text, Point: selection.Point{X: x, Y: y}})
	case "key":
		key, err := parseKeyEvent(rest)
		if err != nil {
			return err
		}
		sink.KeyDown(key)
	case "search":
		sink.SearchArxiv(rest, selection.Point{})
	default:
		return fmt.Errorf("unknown event %q", command)
	}
	return nil
}

func parseKeyEvent(combo string) (selection.KeyEvent, error) {
	parts := strings.Split(strings.TrimSpace(combo), "+")
	var event selection.KeyEvent
	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(modifier)) {
		case "alt", "option", "opt":
			event.Alt = true
		case "ctrl", "control":
			event.Ctrl = true
		case "shift":
			event.Shift = true
		case "meta", "cmd", "command", "super":
			event.Meta = true
		default:
			return selection.KeyEvent{}, fmt.Errorf("unknown modifier %q", modifier)
		}
	}
	event.Key = strings.TrimSpace(parts[len(parts)-1])
	if event.Key == "" {
		return selection.KeyEvent{}, fmt.Errorf("missing key in %q", combo)
	}
	return event, nil
}

func newDrawer(w io.Writer, asHTML bool) func(content.View) {
	var mu sync.Mutex
	renderer := overlay.NewTextRenderer(w)
	return func(view content.View) {
		mu.Lock()
		defer mu.Unlock()

		var err error
		if asHTML {
			var rendered string
			rendered, err = overlay.RenderHTML(view.State, view.Enabled, view.Preferences)
			if err == nil {
				_, err = fmt.Fprintln(w, rendered)
			}
		} else {
			_, err = fmt.Fprintf(w, "--- %s (overlay %s)\n", view.State.Phase(), enabledLabel(view.Enabled))
			if err == nil {
				err = renderer.Render(view.State, view.Enabled, view.Preferences)
			}
		}
		if err != nil {
			slog.Default().Warn("failed to draw the overlay", "error", err)
		}
	}
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
