package extraction

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lexica-nlp/entity-recognition/lib/cache"
	"github.com/lexica-nlp/entity-recognition/lib/entity"
	"github.com/lexica-nlp/entity-recognition/lib/recogniser"
	"github.com/lexica-nlp/entity-recognition/lib/text"
)

type Config struct {
	MinTextLength int `mapstructure:"min_text_length"`
	MaxBatchSize  int `mapstructure:"max_batch_size"`
}

// Service wraps the NER model backend with request caching and person
// title normalization. The backend is loaded lazily on first use; a
// failed load is retried on the next request.
type Service struct {
	client recogniser.Client
	cache  cache.Client
	conf   Config

	loadMut sync.Mutex
	loaded  bool
}

func New(client recogniser.Client, c cache.Client, conf Config) *Service {
	return &Service{client: client, cache: c, conf: conf}
}

// Loaded reports whether the model backend has been loaded.
func (s *Service) Loaded() bool {
	s.loadMut.Lock()
	defer s.loadMut.Unlock()
	return s.loaded
}

// EnsureLoaded loads the model backend at most once. Concurrent callers
// serialise on the mutex so the backend never loads twice; a load failure
// leaves the service unloaded so a later call can retry.
func (s *Service) EnsureLoaded(ctx context.Context) error {
	s.loadMut.Lock()
	defer s.loadMut.Unlock()

	if s.loaded {
		return nil
	}
	if err := s.client.Load(ctx); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

// Extract returns the named entities of text. Results are cached by the
// trimmed text; person entities have leading titles stripped. Backend
// failures propagate: there is no meaningful degraded answer here.
func (s *Service) Extract(ctx context.Context, t string) ([]entity.Entity, error) {
	if len(t) < s.conf.MinTextLength {
		return []entity.Entity{}, nil
	}

	key := strings.TrimSpace(t)
	if cached, ok := s.lookup(key); ok {
		log.Debug().Msg("extraction cache hit")
		return cached, nil
	}

	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	predicted, err := s.client.Predict(ctx, t)
	if err != nil {
		return nil, err
	}

	entities := normalize(predicted)
	s.store(key, entities)
	return entities, nil
}

// ExtractBatch returns one entity list per input, in input order. Texts
// below the minimum length yield empty lists without touching the backend
// or the cache. Uncached texts are deduplicated by trimmed key and sent
// to the backend in a single batch call.
func (s *Service) ExtractBatch(ctx context.Context, texts []string) ([][]entity.Entity, error) {
	results := make([][]entity.Entity, len(texts))

	// keyed by trimmed text: all original indices awaiting that key
	pending := make(map[string][]int)
	var uncached []string

	for i, t := range texts {
		if len(t) < s.conf.MinTextLength {
			results[i] = []entity.Entity{}
			continue
		}
		key := strings.TrimSpace(t)
		if cached, ok := s.lookup(key); ok {
			results[i] = cached
			continue
		}
		if _, seen := pending[key]; !seen {
			uncached = append(uncached, t)
		}
		pending[key] = append(pending[key], i)
	}

	if len(uncached) == 0 {
		return results, nil
	}

	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	predicted, err := s.client.PredictBatch(ctx, uncached, s.conf.MaxBatchSize)
	if err != nil {
		return nil, err
	}

	for j, t := range uncached {
		key := strings.TrimSpace(t)
		entities := normalize(predicted[j])
		s.store(key, entities)
		for _, i := range pending[key] {
			results[i] = entities
		}
	}

	return results, nil
}

func normalize(entities []entity.Entity) []entity.Entity {
	out := make([]entity.Entity, len(entities))
	for i, e := range entities {
		out[i] = text.StripTitle(e)
	}
	return out
}

func (s *Service) lookup(key string) ([]entity.Entity, bool) {
	b, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	var entities []entity.Entity
	if err := json.Unmarshal(b, &entities); err != nil {
		log.Warn().Err(err).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return entities, true
}

func (s *Service) store(key string, entities []entity.Entity) {
	b, err := json.Marshal(entities)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode entities for cache")
		return
	}
	s.cache.Set(key, b)
}
