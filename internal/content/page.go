// Package content runs the page side of the pipeline: it watches selections,
// asks the background process for lookups and keeps the overlay state.
package content

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/at-ishikawa/paperpilot/internal/messaging"
	"github.com/at-ishikawa/paperpilot/internal/overlay"
	"github.com/at-ishikawa/paperpilot/internal/preferences"
	"github.com/at-ishikawa/paperpilot/internal/selection"
)

var (
	ErrStopped        = errors.New("page is not running")
	ErrAlreadyStarted = errors.New("page has already been started")
)

type Sender interface {
	Send(ctx context.Context, request messaging.Request) messaging.Response
}

type PreferencesReader interface {
	Get(ctx context.Context) (preferences.Preferences, error)
}

// View is what the overlay shows after an event has been handled.
type View struct {
	State       overlay.State
	Enabled     bool
	Preferences preferences.Preferences
}

type Option func(*Page)

func WithHotkey(hotkey selection.Hotkey) Option {
	return func(p *Page) {
		p.hotkey = hotkey
	}
}

func WithWatcherOptions(opts ...selection.Option) Option {
	return func(p *Page) {
		p.watcherOptions = append(p.watcherOptions, opts...)
	}
}

// WithOnChange is called from the page loop after every visible change.
func WithOnChange(f func(View)) Option {
	return func(p *Page) {
		p.onChange = f
	}
}

type event interface{}

type selectionEvent struct {
	selection *selection.Selection
}

type keyEvent struct {
	key selection.KeyEvent
}

type searchEvent struct {
	query string
	point selection.Point
}

type responseEvent struct {
	ticket   overlay.Ticket
	response messaging.Response
}

type snapshotEvent struct {
	reply chan View
}

// Page is one document's event loop. All state is owned by the goroutine
// running Run; other methods only post events to it. Release, KeyDown,
// SearchArxiv and Snapshot block until Run has started, and return without
// effect once it has stopped.
type Page struct {
	sender         Sender
	preferences    PreferencesReader
	hotkey         selection.Hotkey
	watcherOptions []selection.Option
	onChange       func(View)

	watcher *selection.Watcher
	events  chan event
	done    chan struct{}
	started atomic.Bool

	// owned by the loop
	controller *overlay.Controller
	enabled    bool
	prefs      preferences.Preferences
}

func NewPage(sender Sender, prefs PreferencesReader, opts ...Option) *Page {
	p := &Page{
		sender:      sender,
		preferences: prefs,
		hotkey:      selection.Hotkey{Key: "o", Alt: true},
		onChange:    func(View) {},
		events:      make(chan event),
		done:        make(chan struct{}),
		controller:  overlay.NewController(),
		prefs:       preferences.Defaults(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.watcher = selection.NewWatcher(func(s *selection.Selection) {
		p.post(selectionEvent{selection: s})
	}, p.watcherOptions...)
	return p
}

// Run hydrates preferences and processes events until ctx is done.
// A page runs once; later calls return ErrAlreadyStarted.
func (p *Page) Run(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer close(p.done)
	defer p.watcher.Stop()

	if p.preferences != nil {
		prefs, err := p.preferences.Get(ctx)
		if err != nil {
			slog.Default().Warn("failed to read preferences, using defaults", "error", err)
		} else {
			p.prefs = prefs
		}
	}
	p.enabled = p.prefs.EnableOverlayByDefault
	p.watcher.SetEnabled(p.enabled)
	p.notify()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-p.events:
			p.handle(ctx, e)
		}
	}
}

// Release feeds a pointer release to the selection watcher. The debounced
// result is delivered to the loop, so Run must have been started.
func (p *Page) Release(event selection.PointerRelease) {
	p.watcher.Release(event)
}

func (p *Page) KeyDown(key selection.KeyEvent) {
	p.post(keyEvent{key: key})
}

// SearchArxiv looks query up on arXiv and shows the results at point.
func (p *Page) SearchArxiv(query string, point selection.Point) {
	p.post(searchEvent{query: query, point: point})
}

func (p *Page) Snapshot(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case p.events <- snapshotEvent{reply: reply}:
	case <-p.done:
		return View{}, ErrStopped
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	select {
	case view := <-reply:
		return view, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (p *Page) post(e event) {
	select {
	case p.events <- e:
	case <-p.done:
	}
}

func (p *Page) handle(ctx context.Context, e event) {
	switch e := e.(type) {
	case selectionEvent:
		if e.selection == nil || !p.enabled {
			if _, idle := p.controller.State().(overlay.Idle); idle {
				return
			}
			p.controller.Clear()
			p.notify()
			return
		}
		ticket := p.controller.Begin(*e.selection, messaging.TypeLookupDefinition)
		p.notify()
		p.send(ctx, ticket, messaging.DefineRequest(e.selection.Text))
	case keyEvent:
		if !p.hotkey.Matches(e.key) {
			return
		}
		p.enabled = !p.enabled
		p.watcher.Stop()
		p.watcher.SetEnabled(p.enabled)
		p.controller.Clear()
		slog.Default().Debug("toggled overlay", "enabled", p.enabled)
		p.notify()
	case searchEvent:
		query := strings.TrimSpace(e.query)
		if query == "" || !p.enabled {
			return
		}
		ticket := p.controller.Begin(selection.Selection{Text: query, Point: e.point}, messaging.TypeSearchArxiv)
		p.notify()
		p.send(ctx, ticket, messaging.SearchArxivRequest(query, p.prefs.ArxivMaxResults))
	case responseEvent:
		if !p.controller.Resolve(e.ticket, e.response) {
			slog.Default().Debug("discarding stale response", "ticket", e.ticket)
			return
		}
		p.notify()
	case snapshotEvent:
		e.reply <- p.view()
	}
}

// send never blocks the loop; the reply comes back as a responseEvent.
func (p *Page) send(ctx context.Context, ticket overlay.Ticket, request messaging.Request) {
	go func() {
		response := p.sender.Send(ctx, request)
		p.post(responseEvent{ticket: ticket, response: response})
	}()
}

func (p *Page) view() View {
	return View{
		State:       p.controller.State(),
		Enabled:     p.enabled,
		Preferences: p.prefs,
	}
}

func (p *Page) notify() {
	p.onChange(p.view())
}
