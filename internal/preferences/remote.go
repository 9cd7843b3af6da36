package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Path is where the background process serves preferences.
const Path = "/v1/preferences"

// Remote reads and writes preferences through a running background process.
type Remote struct {
	httpClient *resty.Client
}

func NewRemote(baseURL string) *Remote {
	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetHeader("Accept", "application/json")
	return &Remote{httpClient: httpClient}
}

func (r *Remote) Get(ctx context.Context) (Preferences, error) {
	res, err := r.httpClient.R().SetContext(ctx).Get(Path)
	if err != nil {
		return Preferences{}, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return Preferences{}, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
	return decodePreferences(res.Body())
}

func (r *Remote) Set(ctx context.Context, update Update) error {
	res, err := r.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(update).
		Put(Path)
	if err != nil {
		return fmt.Errorf("client.R.Put > %w", err)
	}
	switch res.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		message := strings.TrimPrefix(errorMessage(res.Body()), ErrInvalid.Error()+": ")
		return fmt.Errorf("%w: %s", ErrInvalid, message)
	default:
		return fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
}

func decodePreferences(body []byte) (Preferences, error) {
	prefs := Defaults()
	if err := json.Unmarshal(body, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return prefs, nil
}

func errorMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == "" {
		return string(body)
	}
	return envelope.Error
}
