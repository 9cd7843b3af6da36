package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/paperpilot/internal/arxiv"
	"github.com/at-ishikawa/paperpilot/internal/dictionary"
	"github.com/at-ishikawa/paperpilot/internal/lookup"
	"github.com/at-ishikawa/paperpilot/internal/preferences"
)

//go:generate mockgen -source=handler.go -destination=../mocks/messaging/mock_handler.go -package=mock_messaging

type Definer interface {
	Define(ctx context.Context, term string) ([]dictionary.Entry, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]arxiv.Entry, error)
}

type PreferencesReader interface {
	Get(ctx context.Context) (preferences.Preferences, error)
}

// Handler is the only component allowed to call the upstream APIs.
type Handler struct {
	definer     Definer
	searcher    Searcher
	preferences PreferencesReader
}

var _ Receiver = (*Handler)(nil)

func NewHandler(definer Definer, searcher Searcher, preferences PreferencesReader) *Handler {
	return &Handler{
		definer:     definer,
		searcher:    searcher,
		preferences: preferences,
	}
}

// Handle always returns exactly one envelope. Failures, including panics in a
// client, come back as {ok:false}.
func (h *Handler) Handle(ctx context.Context, request Request) (response Response) {
	slog.Default().Debug("received message", "type", request.Type)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while handling %s: %v", request.Type, r)
			slog.Default().Error("message handler panicked", "error", err)
			response = ErrorResponse(lookup.Message(err))
		}
		if !response.OK {
			slog.Default().Warn("sending error response",
				"type", request.Type,
				"error", response.Error)
		}
	}()

	switch request.Type {
	case TypeLookupDefinition:
		entries, err := h.definer.Define(ctx, request.Term)
		if err != nil {
			return ErrorResponse(lookup.Message(err))
		}
		return DefinitionResponse(entries)
	case TypeSearchArxiv:
		results, err := h.searcher.Search(ctx, request.Query, h.maxResults(ctx, request))
		if err != nil {
			return ErrorResponse(lookup.Message(err))
		}
		return ArxivResponse(results)
	default:
		return ErrorResponse(UnknownRequestMessage)
	}
}

func (h *Handler) maxResults(ctx context.Context, request Request) int {
	if request.MaxResults > 0 {
		return request.MaxResults
	}
	if h.preferences == nil {
		return arxiv.DefaultMaxResults
	}
	prefs, err := h.preferences.Get(ctx)
	if err != nil {
		slog.Default().Warn("failed to read preferences, using the default arXiv bound", "error", err)
		return preferences.Defaults().ArxivMaxResults
	}
	return prefs.ArxivMaxResults
}
