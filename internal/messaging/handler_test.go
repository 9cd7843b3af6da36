package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/paperpilot/internal/arxiv"
	"github.com/at-ishikawa/paperpilot/internal/dictionary"
	"github.com/at-ishikawa/paperpilot/internal/lookup"
	mock_messaging "github.com/at-ishikawa/paperpilot/internal/mocks/messaging"
	"github.com/at-ishikawa/paperpilot/internal/preferences"
)

func TestHandler_Handle(t *testing.T) {
	entropy := []dictionary.Entry{{Word: "entropy"}}
	papers := []arxiv.Entry{{ID: "http://arxiv.org/abs/1", Title: "A paper"}}

	tests := []struct {
		name    string
		request Request
		setup   func(definer *mock_messaging.MockDefiner, searcher *mock_messaging.MockSearcher, prefs *mock_messaging.MockPreferencesReader)
		want    Response
	}{
		{
			name:    "definition found",
			request: DefineRequest("entropy"),
			setup: func(definer *mock_messaging.MockDefiner, _ *mock_messaging.MockSearcher, _ *mock_messaging.MockPreferencesReader) {
				definer.EXPECT().Define(gomock.Any(), "entropy").Return(entropy, nil)
			},
			want: DefinitionResponse(entropy),
		},
		{
			name:    "definition not found",
			request: DefineRequest("zzzz qqqq"),
			setup: func(definer *mock_messaging.MockDefiner, _ *mock_messaging.MockSearcher, _ *mock_messaging.MockPreferencesReader) {
				definer.EXPECT().Define(gomock.Any(), "zzzz qqqq").Return(nil, &lookup.NotFoundError{Term: "zzzz qqqq"})
			},
			want: ErrorResponse(`No definition found for "zzzz qqqq". Try selecting a single word.`),
		},
		{
			name:    "dictionary upstream failure",
			request: DefineRequest("entropy"),
			setup: func(definer *mock_messaging.MockDefiner, _ *mock_messaging.MockSearcher, _ *mock_messaging.MockPreferencesReader) {
				definer.EXPECT().Define(gomock.Any(), "entropy").Return(nil, &lookup.UpstreamError{Service: "Dictionary", StatusCode: 500})
			},
			want: ErrorResponse("Dictionary error 500"),
		},
		{
			name:    "search with explicit bound",
			request: SearchArxivRequest("transformers", 7),
			setup: func(_ *mock_messaging.MockDefiner, searcher *mock_messaging.MockSearcher, _ *mock_messaging.MockPreferencesReader) {
				searcher.EXPECT().Search(gomock.Any(), "transformers", 7).Return(papers, nil)
			},
			want: ArxivResponse(papers),
		},
		{
			name:    "search bound comes from preferences",
			request: SearchArxivRequest("transformers", 0),
			setup: func(_ *mock_messaging.MockDefiner, searcher *mock_messaging.MockSearcher, prefs *mock_messaging.MockPreferencesReader) {
				stored := preferences.Defaults()
				stored.ArxivMaxResults = 25
				prefs.EXPECT().Get(gomock.Any()).Return(stored, nil)
				searcher.EXPECT().Search(gomock.Any(), "transformers", 25).Return(papers, nil)
			},
			want: ArxivResponse(papers),
		},
		{
			name:    "unreadable preferences use the default bound",
			request: SearchArxivRequest("transformers", 0),
			setup: func(_ *mock_messaging.MockDefiner, searcher *mock_messaging.MockSearcher, prefs *mock_messaging.MockPreferencesReader) {
				prefs.EXPECT().Get(gomock.Any()).Return(preferences.Preferences{}, errors.New("disk gone"))
				searcher.EXPECT().Search(gomock.Any(), "transformers", 10).Return(nil, nil)
			},
			want: ArxivResponse(nil),
		},
		{
			name:    "arxiv upstream failure",
			request: SearchArxivRequest("transformers", 10),
			setup: func(_ *mock_messaging.MockDefiner, searcher *mock_messaging.MockSearcher, _ *mock_messaging.MockPreferencesReader) {
				searcher.EXPECT().Search(gomock.Any(), "transformers", 10).Return(nil, &lookup.UpstreamError{Service: "arXiv", StatusCode: 503})
			},
			want: ErrorResponse("arXiv error 503"),
		},
		{
			name:    "network failure keeps its message",
			request: SearchArxivRequest("transformers", 10),
			setup: func(_ *mock_messaging.MockDefiner, searcher *mock_messaging.MockSearcher, _ *mock_messaging.MockPreferencesReader) {
				searcher.EXPECT().Search(gomock.Any(), "transformers", 10).Return(nil, errors.New("connection refused"))
			},
			want: ErrorResponse("connection refused"),
		},
		{
			name:    "unknown request",
			request: Request{Type: "translate", Term: "entropy"},
			setup: func(*mock_messaging.MockDefiner, *mock_messaging.MockSearcher, *mock_messaging.MockPreferencesReader) {
			},
			want: ErrorResponse(UnknownRequestMessage),
		},
		{
			name:    "panicking client still replies",
			request: DefineRequest("entropy"),
			setup: func(definer *mock_messaging.MockDefiner, _ *mock_messaging.MockSearcher, _ *mock_messaging.MockPreferencesReader) {
				definer.EXPECT().Define(gomock.Any(), "entropy").DoAndReturn(func(context.Context, string) ([]dictionary.Entry, error) {
					panic("nil map")
				})
			},
			want: ErrorResponse("panic while handling lookupDefinition: nil map"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			definer := mock_messaging.NewMockDefiner(ctrl)
			searcher := mock_messaging.NewMockSearcher(ctrl)
			prefs := mock_messaging.NewMockPreferencesReader(ctrl)
			tt.setup(definer, searcher, prefs)

			handler := NewHandler(definer, searcher, prefs)
			got := handler.Handle(context.Background(), tt.request)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandler_Handle_WithoutPreferences(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mock_messaging.NewMockSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), "graphs", arxiv.DefaultMaxResults).Return(nil, nil)

	handler := NewHandler(nil, searcher, nil)
	got := handler.Handle(context.Background(), SearchArxivRequest("graphs", 0))
	assert.Equal(t, ArxivResponse(nil), got)
}
