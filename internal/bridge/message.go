// Package bridge carries fetch intents from the UI to the host and fetched
// results back. Both directions share one envelope shape on the wire and are
// decoded into typed messages at the boundary.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/matheuskafuri/jjfeed/internal/juejin"
)

const (
	TypeFetchArticles   = "fetch:articles"
	TypeFetchGithubs    = "fetch:githubs"
	TypeFetchedArticles = "fetched:articles"
	TypeFetchedGithubs  = "fetched:githubs"
)

var (
	ErrUnknownType = errors.New("unrecognized message type")
	ErrMalformed   = errors.New("malformed message payload")
)

// Envelope is the wire shape for both directions. Data is a JSON document
// serialized to a string and is only parsed by the receiving side.
type Envelope struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
	ID   string `json:"id,omitempty"`
	Seq  uint64 `json:"seq,omitempty"`
}

// Intent is a UI-to-host request.
type Intent interface {
	intentType() string
	seq() uint64
}

// FetchArticles asks for one page of articles. A nil Query means no payload.
type FetchArticles struct {
	Seq   uint64
	Query *juejin.ArticleQuery
}

// FetchGithubs asks for the GitHub list. A nil Query means no payload.
type FetchGithubs struct {
	Seq   uint64
	Query *juejin.GithubQuery
}

func (FetchArticles) intentType() string { return TypeFetchArticles }
func (i FetchArticles) seq() uint64 { return i.Seq }
func (FetchGithubs) intentType() string { return TypeFetchGithubs }
func (i FetchGithubs) seq() uint64 { return i.Seq }

// Result is a host-to-UI reply. Seq echoes the intent it answers.
type Result interface {
	resultType() string
	seq() uint64
}

type ArticlesFetched struct {
	Seq  uint64
	Page juejin.ArticlesPage
}

type GithubsFetched struct {
	Seq   uint64
	Repos []juejin.Repo
}

func (ArticlesFetched) resultType() string { return TypeFetchedArticles }
func (r ArticlesFetched) seq() uint64 { return r.Seq }
func (GithubsFetched) resultType() string { return TypeFetchedGithubs }
func (r GithubsFetched) seq() uint64 { return r.Seq }

// EncodeIntent stamps a fresh request id on the envelope.
func EncodeIntent(i Intent) (Envelope, error) {
	var payload any
	switch v := i.(type) {
	case FetchArticles:
		if v.Query != nil {
			payload = v.Query
		}
	case FetchGithubs:
		if v.Query != nil {
			payload = v.Query
		}
	default:
		return Envelope{}, fmt.Errorf("encoding intent %T: %w", i, ErrUnknownType)
	}
	env := Envelope{Type: i.intentType(), ID: uuid.NewString(), Seq: i.seq()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("encoding %s: %w", env.Type, err)
		}
		env.Data = string(data)
	}
	return env, nil
}

// DecodeIntent validates env and returns the typed intent. Unknown types
// yield ErrUnknownType; unparsable or invalid queries yield ErrMalformed.
func DecodeIntent(env Envelope) (Intent, error) {
	switch env.Type {
	case TypeFetchArticles:
		var q *juejin.ArticleQuery
		if err := unmarshalPayload(env.Data, &q); err != nil {
			return nil, err
		}
		if q != nil {
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
		return FetchArticles{Seq: env.Seq, Query: q}, nil
	case TypeFetchGithubs:
		var q *juejin.GithubQuery
		if err := unmarshalPayload(env.Data, &q); err != nil {
			return nil, err
		}
		if q != nil {
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
		return FetchGithubs{Seq: env.Seq, Query: q}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
}

// EncodeResult builds the reply envelope for the intent envelope req.
func EncodeResult(r Result, req Envelope) (Envelope, error) {
	var payload any
	switch v := r.(type) {
	case ArticlesFetched:
		payload = v.Page
	case GithubsFetched:
		repos := v.Repos
		if repos == nil {
			repos = []juejin.Repo{}
		}
		payload = repos
	default:
		return Envelope{}, fmt.Errorf("encoding result %T: %w", r, ErrUnknownType)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding %s: %w", r.resultType(), err)
	}
	return Envelope{Type: r.resultType(), Data: string(data), ID: req.ID, Seq: r.seq()}, nil
}

// DecodeResult is the UI-side counterpart of DecodeIntent.
func DecodeResult(env Envelope) (Result, error) {
	switch env.Type {
	case TypeFetchedArticles:
		var page juejin.ArticlesPage
		if err := json.Unmarshal([]byte(env.Data), &page); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return ArticlesFetched{Seq: env.Seq, Page: page}, nil
	case TypeFetchedGithubs:
		var repos []juejin.Repo
		if err := json.Unmarshal([]byte(env.Data), &repos); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return GithubsFetched{Seq: env.Seq, Repos: repos}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
}

// unmarshalPayload leaves dst nil for an empty or "null" payload.
func unmarshalPayload(data string, dst any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
