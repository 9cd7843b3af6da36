// Package messaging carries lookup requests from a UI context to the
// background process and the single reply back.
package messaging

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/at-ishikawa/paperpilot/internal/arxiv"
	"github.com/at-ishikawa/paperpilot/internal/dictionary"
)

type RequestType string

const (
	TypeLookupDefinition RequestType = "lookupDefinition"
	TypeSearchArxiv      RequestType = "searchArxiv"
)

const (
	UnknownRequestMessage   = "Unknown request"
	TransportFailureMessage = "Failed to communicate with background script"
)

// Request is either a definition lookup (Term) or an arXiv search (Query).
// MaxResults is optional; zero means "use the stored preference".
type Request struct {
	Type       RequestType `json:"type"`
	Term       string      `json:"term,omitempty"`
	Query      string      `json:"query,omitempty"`
	MaxResults int         `json:"maxResults,omitempty"`
}

func DefineRequest(term string) Request {
	return Request{Type: TypeLookupDefinition, Term: term}
}

func SearchArxivRequest(query string, maxResults int) Request {
	return Request{Type: TypeSearchArxiv, Query: query, MaxResults: maxResults}
}

// Response is the reply envelope. Build it with DefinitionResponse,
// ArxivResponse or ErrorResponse so success and failure never mix.
type Response struct {
	OK      bool
	Type    RequestType
	Entries []dictionary.Entry
	Results []arxiv.Entry
	Error   string
}

func DefinitionResponse(entries []dictionary.Entry) Response {
	if entries == nil {
		entries = []dictionary.Entry{}
	}
	return Response{OK: true, Type: TypeLookupDefinition, Entries: entries}
}

func ArxivResponse(results []arxiv.Entry) Response {
	if results == nil {
		results = []arxiv.Entry{}
	}
	return Response{OK: true, Type: TypeSearchArxiv, Results: results}
}

func ErrorResponse(message string) Response {
	return Response{OK: false, Error: message}
}

type definitionJSON struct {
	OK      bool               `json:"ok"`
	Type    RequestType        `json:"type"`
	Entries []dictionary.Entry `json:"entries"`
}

type arxivJSON struct {
	OK      bool          `json:"ok"`
	Type    RequestType   `json:"type"`
	Results []arxiv.Entry `json:"results"`
}

type errorJSON struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	if !r.OK {
		return json.Marshal(errorJSON{OK: false, Error: r.Error})
	}
	switch r.Type {
	case TypeLookupDefinition:
		normalized := DefinitionResponse(r.Entries)
		return json.Marshal(definitionJSON{OK: true, Type: normalized.Type, Entries: normalized.Entries})
	case TypeSearchArxiv:
		normalized := ArxivResponse(r.Results)
		return json.Marshal(arxivJSON{OK: true, Type: normalized.Type, Results: normalized.Results})
	default:
		return nil, fmt.Errorf("unknown response type: %q", r.Type)
	}
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var raw struct {
		OK      *bool              `json:"ok"`
		Type    RequestType        `json:"type"`
		Entries []dictionary.Entry `json:"entries"`
		Results []arxiv.Entry      `json:"results"`
		Error   string             `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.OK == nil {
		return errors.New("response envelope has no ok field")
	}
	if !*raw.OK {
		*r = ErrorResponse(raw.Error)
		return nil
	}
	switch raw.Type {
	case TypeLookupDefinition:
		*r = DefinitionResponse(raw.Entries)
	case TypeSearchArxiv:
		*r = ArxivResponse(raw.Results)
	default:
		return fmt.Errorf("unknown response type: %q", raw.Type)
	}
	return nil
}
