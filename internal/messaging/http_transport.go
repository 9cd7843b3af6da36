package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	MessagesPath    = "/v1/messages"
	RequestIDHeader = "X-Request-Id"
)

// HTTPTransport reaches a background process started with `paperpilot serve`.
type HTTPTransport struct {
	httpClient *resty.Client
}

var _ Transport = (*HTTPTransport)(nil)

func NewHTTPTransport(baseURL string) *HTTPTransport {
	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetHeader("Content-Type", "application/json")
	httpClient.SetHeader("Accept", "application/json")
	return &HTTPTransport{httpClient: httpClient}
}

func (t *HTTPTransport) RoundTrip(ctx context.Context, request Request) (Response, error) {
	requestID := uuid.NewString()
	res, err := t.httpClient.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID).
		SetBody(request).
		Post(MessagesPath)
	if err != nil {
		return Response{}, &TransportError{Cause: fmt.Errorf("client.R.Post > %w", err)}
	}
	if res.StatusCode() != http.StatusOK {
		return Response{}, &TransportError{Cause: fmt.Errorf("status code: %d, request id: %s, body: %s", res.StatusCode(), requestID, string(res.Body()))}
	}

	var response Response
	if err := json.Unmarshal(res.Body(), &response); err != nil {
		return Response{}, &TransportError{Cause: fmt.Errorf("json.Unmarshal > %w", err)}
	}
	return response, nil
}
