// Package overlay holds the per-selection display state and renders it as
// the floating panel anchored at the selection.
package overlay

import (
	"fmt"

	"github.com/at-ishikawa/paperpilot/internal/arxiv"
	"github.com/at-ishikawa/paperpilot/internal/dictionary"
	"github.com/at-ishikawa/paperpilot/internal/messaging"
	"github.com/at-ishikawa/paperpilot/internal/selection"
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhasePending  Phase = "pending"
	PhaseResolved Phase = "resolved"
	PhaseFailed   Phase = "failed"
)

// State is one of Idle, Pending, Resolved or Failed.
type State interface {
	Phase() Phase
	state()
}

type Idle struct{}

type Pending struct {
	Selection selection.Selection
	Kind      messaging.RequestType
}

type Resolved struct {
	Selection selection.Selection
	Kind      messaging.RequestType
	Entries   []dictionary.Entry
	Results   []arxiv.Entry
}

type Failed struct {
	Selection selection.Selection
	Kind      messaging.RequestType
	Message   string
}

func (Idle) Phase() Phase     { return PhaseIdle }
func (Pending) Phase() Phase  { return PhasePending }
func (Resolved) Phase() Phase { return PhaseResolved }
func (Failed) Phase() Phase   { return PhaseFailed }

func (Idle) state()     {}
func (Pending) state()  {}
func (Resolved) state() {}
func (Failed) state()   {}

// Ticket identifies the request issued for one selection.
type Ticket uint64

// Controller drives the state machine for a single page. Only the response
// for the latest ticket may move the state out of Pending. It is not safe for
// concurrent use.
type Controller struct {
	state  State
	ticket Ticket
}

func NewController() *Controller {
	return &Controller{state: Idle{}}
}

func (c *Controller) State() State {
	return c.state
}

// Begin moves to Pending for s and supersedes any request still in flight.
func (c *Controller) Begin(s selection.Selection, kind messaging.RequestType) Ticket {
	c.ticket++
	c.state = Pending{Selection: s, Kind: kind}
	return c.ticket
}

// Resolve applies response if ticket is still current and reports whether it did.
func (c *Controller) Resolve(ticket Ticket, response messaging.Response) bool {
	pending, ok := c.state.(Pending)
	if !ok || ticket != c.ticket {
		return false
	}

	switch {
	case !response.OK:
		c.state = Failed{Selection: pending.Selection, Kind: pending.Kind, Message: response.Error}
	case response.Type != pending.Kind:
		c.state = Failed{
			Selection: pending.Selection,
			Kind:      pending.Kind,
			Message:   fmt.Sprintf("unexpected %s response", response.Type),
		}
	default:
		c.state = Resolved{
			Selection: pending.Selection,
			Kind:      pending.Kind,
			Entries:   response.Entries,
			Results:   response.Results,
		}
	}
	return true
}

// Clear returns to Idle and drops any response still in flight.
func (c *Controller) Clear() {
	c.ticket++
	c.state = Idle{}
}
