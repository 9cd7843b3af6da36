package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/paperpilot/internal/dictionary"
	"github.com/at-ishikawa/paperpilot/internal/messaging"
	"github.com/at-ishikawa/paperpilot/internal/preferences"
)

func echoReceiver() messaging.Receiver {
	return messaging.ReceiverFunc(func(_ context.Context, request messaging.Request) messaging.Response {
		if request.Type != messaging.TypeLookupDefinition {
			return messaging.ErrorResponse(messaging.UnknownRequestMessage)
		}
		return messaging.DefinitionResponse([]dictionary.Entry{{Word: request.Term}})
	})
}

func TestServer_Messages(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "lookup",
			body:           `{"type":"lookupDefinition","term":"entropy"}`,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"ok":true,"type":"lookupDefinition","entries":[{"word":"entropy","phonetics":null,"meanings":null}]}`,
		},
		{
			name:           "unknown type is still a reply",
			body:           `{"type":"translate"}`,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"ok":false,"error":"Unknown request"}`,
		},
		{
			name:           "malformed body",
			body:           `{"type":`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(echoReceiver(), preferences.NewService(preferences.NewMemoryStore()))
			req := httptest.NewRequest(http.MethodPost, messaging.MessagesPath, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
				return
			}
			var got map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, false, got["ok"])
			assert.NotEmpty(t, got["error"])
		})
	}
}

func TestServer_Preferences(t *testing.T) {
	s := New(echoReceiver(), preferences.NewService(preferences.NewMemoryStore()))

	get := func() (int, string) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, preferences.Path, nil))
		return w.Code, w.Body.String()
	}
	put := func(body string) (int, string) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPut, preferences.Path, strings.NewReader(body)))
		return w.Code, w.Body.String()
	}

	code, body := get()
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"maxDefinitions":2,"arxivMaxResults":10,"enableOverlayByDefault":true}`, body)

	code, body = put(`{"arxivMaxResults":20}`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"maxDefinitions":2,"arxivMaxResults":20,"enableOverlayByDefault":true}`, body)

	code, body = put(`{"maxDefinitions":9}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "maxDefinitions")

	code, _ = put(`not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = get()
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"maxDefinitions":2,"arxivMaxResults":20,"enableOverlayByDefault":true}`, body)
}

func TestServer_Health(t *testing.T) {
	s := New(echoReceiver(), nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, HealthPath, nil)
	req.Header.Set(messaging.RequestIDHeader, "abc")
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Serve_WithHTTPTransport(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(echoReceiver(), nil).Serve(ctx, listener)
	}()

	sender := messaging.NewSender(messaging.NewHTTPTransport("http://" + listener.Addr().String()))
	got := sender.Send(context.Background(), messaging.DefineRequest("entropy"))
	assert.Equal(t, messaging.DefinitionResponse([]dictionary.Entry{{Word: "entropy"}}), got)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
