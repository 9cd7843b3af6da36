package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/paperpilot/internal/arxiv"
	"github.com/at-ishikawa/paperpilot/internal/dictionary"
	"github.com/at-ishikawa/paperpilot/internal/messaging"
	"github.com/at-ishikawa/paperpilot/internal/selection"
)

func TestController(t *testing.T) {
	entropy := selection.Selection{Text: "entropy", Point: selection.Point{X: 10, Y: 20}}
	gradient := selection.Selection{Text: "gradient", Point: selection.Point{X: 30, Y: 40}}
	entries := []dictionary.Entry{{Word: "entropy"}}

	t.Run("starts idle", func(t *testing.T) {
		assert.Equal(t, Idle{}, NewController().State())
	})

	t.Run("pending then resolved", func(t *testing.T) {
		c := NewController()
		ticket := c.Begin(entropy, messaging.TypeLookupDefinition)
		assert.Equal(t, Pending{Selection: entropy, Kind: messaging.TypeLookupDefinition}, c.State())

		assert.True(t, c.Resolve(ticket, messaging.DefinitionResponse(entries)))
		assert.Equal(t, Resolved{Selection: entropy, Kind: messaging.TypeLookupDefinition, Entries: entries}, c.State())
		assert.Equal(t, PhaseResolved, c.State().Phase())
	})

	t.Run("pending then failed", func(t *testing.T) {
		c := NewController()
		ticket := c.Begin(entropy, messaging.TypeLookupDefinition)
		assert.True(t, c.Resolve(ticket, messaging.ErrorResponse("Dictionary error 500")))
		assert.Equal(t, Failed{Selection: entropy, Kind: messaging.TypeLookupDefinition, Message: "Dictionary error 500"}, c.State())
	})

	t.Run("superseded response is discarded", func(t *testing.T) {
		c := NewController()
		first := c.Begin(entropy, messaging.TypeLookupDefinition)
		second := c.Begin(gradient, messaging.TypeLookupDefinition)

		assert.False(t, c.Resolve(first, messaging.DefinitionResponse(entries)))
		assert.Equal(t, Pending{Selection: gradient, Kind: messaging.TypeLookupDefinition}, c.State())

		assert.True(t, c.Resolve(second, messaging.ErrorResponse("Dictionary error 502")))
		assert.False(t, c.Resolve(first, messaging.DefinitionResponse(entries)))
		assert.Equal(t, PhaseFailed, c.State().Phase())
	})

	t.Run("response after clear is discarded", func(t *testing.T) {
		c := NewController()
		ticket := c.Begin(entropy, messaging.TypeLookupDefinition)
		c.Clear()
		assert.False(t, c.Resolve(ticket, messaging.DefinitionResponse(entries)))
		assert.Equal(t, Idle{}, c.State())
	})

	t.Run("second response for the same ticket is ignored", func(t *testing.T) {
		c := NewController()
		ticket := c.Begin(entropy, messaging.TypeLookupDefinition)
		assert.True(t, c.Resolve(ticket, messaging.DefinitionResponse(entries)))
		assert.False(t, c.Resolve(ticket, messaging.ErrorResponse("late")))
		assert.Equal(t, PhaseResolved, c.State().Phase())
	})

	t.Run("mismatched response type fails", func(t *testing.T) {
		c := NewController()
		ticket := c.Begin(entropy, messaging.TypeLookupDefinition)
		assert.True(t, c.Resolve(ticket, messaging.ArxivResponse([]arxiv.Entry{{ID: "a"}})))
		assert.Equal(t, Failed{Selection: entropy, Kind: messaging.TypeLookupDefinition, Message: "unexpected searchArxiv response"}, c.State())
	})
}
