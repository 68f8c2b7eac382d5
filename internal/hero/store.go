package hero

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/openHPI/herostore/internal/config"
	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/pkg/logging"
	"github.com/openHPI/herostore/pkg/messages"
)

var log = logging.GetLogger("hero")

// collectionPath is the path of the hero collection below the configured backend.
const collectionPath = "/api/v1/heroes"

// Store is the single point of contact with the backend hero collection.
// Every operation logs its outcome to the message sink and converts any
// transport failure into a safe fallback value. No operation ever returns
// an error to the caller, the only visible trace of a failure is the
// message sink entry and the diagnostic log record.
type Store struct {
	requester Requester
	baseURL   string
	sink      messages.Sink
}

// NewStore creates a Store for the collection resource at baseURL.
// The collaborators are passed explicitly, the Store resolves nothing globally.
func NewStore(requester Requester, baseURL string, sink messages.Sink) *Store {
	return &Store{
		requester: requester,
		baseURL:   baseURL,
		sink:      sink,
	}
}

// NewConfiguredStore creates a Store for the backend of the Client
// configuration section. Every request is bounded by the configured timeout.
func NewConfiguredStore(sink messages.Sink) *Store {
	clientConfig := config.Config.Client
	httpClient := &http.Client{
		Timeout: time.Duration(clientConfig.RequestTimeoutMilliseconds) * time.Millisecond,
	}
	return NewStore(NewRestClient(httpClient), clientConfig.URL().String()+collectionPath, sink)
}

// List fetches all heroes of the collection.
// On failure it responds with an empty slice.
func (s *Store) List(ctx context.Context) []dto.Hero {
	body, err := s.requester.Get(ctx, s.baseURL)
	if err != nil {
		return s.recoverHeroes(ctx, "list", err)
	}
	heroes, err := unmarshalHeroes(body)
	if err != nil {
		return s.recoverHeroes(ctx, "list", err)
	}
	s.sink.Add("fetched heroes")
	return heroes
}

// Get fetches the hero with the passed id.
// Iff the request failed, ok is false and the returned hero is the zero value.
func (s *Store) Get(ctx context.Context, id dto.HeroID) (hero dto.Hero, ok bool) {
	operation := fmt.Sprintf("get hero id=%d", id)
	body, err := s.requester.Get(ctx, s.itemURL(id))
	if err != nil {
		s.recoverFrom(ctx, operation, err)
		return dto.Hero{}, false
	}
	if err := json.Unmarshal(body, &hero); err != nil {
		s.recoverFrom(ctx, operation, fmt.Errorf("error unmarshaling hero: %w", err))
		return dto.Hero{}, false
	}
	s.sink.Add(fmt.Sprintf("fetched hero id=%d", id))
	return hero, true
}

// Create registers a new hero with the backend. The id of the passed hero is
// ignored, the backend assigns it. Iff ok, the returned hero carries the
// server-assigned id.
func (s *Store) Create(ctx context.Context, newHero dto.Hero) (hero dto.Hero, ok bool) {
	body, err := s.requester.Post(ctx, s.baseURL, dto.HeroRequest{Name: newHero.Name})
	if err != nil {
		s.recoverFrom(ctx, "create hero", err)
		return dto.Hero{}, false
	}
	if err := json.Unmarshal(body, &hero); err != nil {
		s.recoverFrom(ctx, "create hero", fmt.Errorf("error unmarshaling created hero: %w", err))
		return dto.Hero{}, false
	}
	s.sink.Add(fmt.Sprintf("created hero id=%d", hero.ID))
	return hero, true
}

// Update replaces the hero on the backend with the passed full value.
// The response body of the update route is implementation-defined, so the
// returned ok only reports that the request completed without a transport
// failure. A caller cannot tell a saved update from a recovered one beyond
// this flag.
func (s *Store) Update(ctx context.Context, hero dto.Hero) bool {
	operation := fmt.Sprintf("update hero id=%d", hero.ID)
	body, err := s.requester.Put(ctx, s.baseURL, hero)
	if err != nil {
		s.recoverFrom(ctx, operation, err)
		return false
	}

	// Some backends echo the updated hero, others respond with an empty body.
	// Decode what is there without requiring a fixed schema.
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		var updated dto.Hero
		if err := mapstructure.Decode(payload, &updated); err == nil && updated.ID != 0 {
			log.WithContext(ctx).WithField(dto.KeyHeroID, updated.ID.ToString()).Trace("Backend echoed updated hero")
		}
	}

	s.sink.Add(fmt.Sprintf("updated hero id=%d", hero.ID))
	return true
}

// DeleteByID removes the hero with the passed id from the backend collection.
// Iff ok, the returned hero is the value the backend reported as deleted.
func (s *Store) DeleteByID(ctx context.Context, id dto.HeroID) (hero dto.Hero, ok bool) {
	operation := fmt.Sprintf("delete hero id=%d", id)
	body, err := s.requester.Delete(ctx, s.itemURL(id))
	if err != nil {
		s.recoverFrom(ctx, operation, err)
		return dto.Hero{}, false
	}
	// A backend may respond with an empty body on delete.
	if len(body) > 0 {
		if err := json.Unmarshal(body, &hero); err != nil {
			s.recoverFrom(ctx, operation, fmt.Errorf("error unmarshaling deleted hero: %w", err))
			return dto.Hero{}, false
		}
	}
	s.sink.Add(fmt.Sprintf("deleted hero id=%d", id))
	return hero, true
}

// DeleteHero removes the passed hero from the backend collection.
// It is the explicit companion of DeleteByID for callers holding a full value.
func (s *Store) DeleteHero(ctx context.Context, hero dto.Hero) (dto.Hero, bool) {
	return s.DeleteByID(ctx, hero.ID)
}

// Search fetches all heroes whose name contains the passed term.
// A term that is empty after trimming short-circuits to an empty slice
// without touching the network or the message sink.
func (s *Store) Search(ctx context.Context, term string) []dto.Hero {
	term = dto.TrimTerm(term)
	if term == "" {
		return []dto.Hero{}
	}

	operation := fmt.Sprintf("search heroes matching %q", term)
	searchURL := fmt.Sprintf("%s?name=%s", s.baseURL, url.QueryEscape(term))
	body, err := s.requester.Get(ctx, searchURL)
	if err != nil {
		return s.recoverHeroes(ctx, operation, err)
	}
	heroes, err := unmarshalHeroes(body)
	if err != nil {
		return s.recoverHeroes(ctx, operation, err)
	}

	if len(heroes) > 0 {
		s.sink.Add(fmt.Sprintf("found %d heroes matching %q", len(heroes), term))
	} else {
		s.sink.Add(fmt.Sprintf("no heroes matching %q", term))
	}
	return heroes
}

func (s *Store) itemURL(id dto.HeroID) string {
	return fmt.Sprintf("%s/%d", s.baseURL, id)
}

// recoverHeroes applies the recovery policy for operations whose fallback is
// an empty hero slice.
func (s *Store) recoverHeroes(ctx context.Context, operation string, err error) []dto.Hero {
	s.recoverFrom(ctx, operation, err)
	return []dto.Hero{}
}

// recoverFrom implements the uniform failure handling: record the full error
// to the diagnostic channel and emit a user-facing message to the sink.
// The failure is absorbed here, it never propagates to the caller.
// A canceled context is not a failure of the operation but a superseded
// request whose result nobody observes anymore, it only leaves a debug trace.
func (s *Store) recoverFrom(ctx context.Context, operation string, err error) {
	if errors.Is(err, context.Canceled) {
		log.WithContext(ctx).WithField(dto.KeyOperation, operation).Debug("Hero operation canceled by context")
		return
	}
	log.WithContext(ctx).WithError(err).WithField(dto.KeyOperation, operation).Warn("Hero operation recovered")
	s.sink.Add(fmt.Sprintf("%s failed: %s", operation, err.Error()))
}

func unmarshalHeroes(body []byte) ([]dto.Hero, error) {
	var heroes []dto.Hero
	if err := json.Unmarshal(body, &heroes); err != nil {
		return nil, fmt.Errorf("error unmarshaling hero list: %w", err)
	}
	// A backend may respond with a JSON null. Callers always get a slice.
	if heroes == nil {
		heroes = []dto.Hero{}
	}
	return heroes, nil
}
