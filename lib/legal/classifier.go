package legal

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lexica-nlp/entity-recognition/lib/cache"
	"github.com/lexica-nlp/entity-recognition/lib/completion"
	"github.com/lexica-nlp/entity-recognition/lib/entity"
	"github.com/lexica-nlp/entity-recognition/lib/extraction"
)

type Config struct {
	MinTextLength int           `mapstructure:"min_text_length"`
	Model         string        `mapstructure:"model"`
	Temperature   float64       `mapstructure:"temperature"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Classifier assigns legal roles to people mentioned in legal texts.
// The single path detects people first through the extraction service and
// asks the completion service only for roles; the batch path asks it to
// detect and classify in one call. Classification is best-effort
// enrichment: provider and parse failures degrade to an empty or
// heuristic result and never propagate to the caller.
type Classifier struct {
	completion completion.Client
	extraction *extraction.Service
	cache      cache.Client
	conf       Config
}

// New constructs a Classifier. A nil completion client marks the
// classifier as unconfigured: every call returns an empty result.
func New(cmpl completion.Client, extr *extraction.Service, c cache.Client, conf Config) *Classifier {
	return &Classifier{completion: cmpl, extraction: extr, cache: c, conf: conf}
}

// Configured reports whether a completion credential was provided.
func (c *Classifier) Configured() bool {
	return c.completion != nil
}

// Classify returns the role-tagged people of one legal text. An empty
// result means "no role information available", not a guaranteed absence
// of people.
func (c *Classifier) Classify(ctx context.Context, text string) []entity.LegalEntity {
	if len(text) < c.conf.MinTextLength || !c.Configured() {
		return []entity.LegalEntity{}
	}

	key := strings.TrimSpace(text)
	if cached, ok := c.lookup(key); ok {
		log.Debug().Msg("legal cache hit")
		return cached
	}

	names, err := c.detectPersons(ctx, text)
	if err != nil {
		log.Error().Err(err).Msg("person detection failed, returning empty legal result")
		return []entity.LegalEntity{}
	}
	if len(names) == 0 {
		log.Debug().Msg("no person entities found in text")
		return []entity.LegalEntity{}
	}

	cctx, cancel := c.completionContext(ctx)
	raw, err := c.completion.Complete(cctx, completion.Request{
		Model: c.conf.Model,
		Messages: []completion.Message{
			{Role: completion.RoleSystem, Content: systemPrompt},
			{Role: completion.RoleUser, Content: buildPrompt(text, names)},
		},
		Temperature: c.conf.Temperature,
		MaxTokens:   c.conf.MaxTokens,
	})
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("completion call failed, degrading to unclassified persons")
		return degraded(names)
	}

	parsed := parseResponse(raw)
	if parsed.form == formInvalid {
		log.Warn().Msg("unparseable completion response, degrading to unclassified persons")
		return degraded(names)
	}

	entities := applyLoneEntityRule(validateCandidates(parsed.candidates))
	c.store(key, entities)
	return entities
}

// ClassifyBatch returns one result list per input text, in input order.
// The optimised path makes a single indexed completion call for all
// uncached qualifying texts; if that call or its parse fails, every input
// falls back through the single-text path independently.
func (c *Classifier) ClassifyBatch(ctx context.Context, texts []string) [][]entity.LegalEntity {
	results := make([][]entity.LegalEntity, len(texts))
	for i := range results {
		results[i] = []entity.LegalEntity{}
	}
	if !c.Configured() {
		return results
	}

	// original indices of texts the completion service must see
	var asked []int
	for i, t := range texts {
		if len(t) < c.conf.MinTextLength {
			continue
		}
		if cached, ok := c.lookup(strings.TrimSpace(t)); ok {
			results[i] = cached
			continue
		}
		asked = append(asked, i)
	}
	if len(asked) == 0 {
		return results
	}

	askedTexts := make([]string, len(asked))
	for j, i := range asked {
		askedTexts[j] = texts[i]
	}

	cctx, cancel := c.completionContext(ctx)
	raw, err := c.completion.Complete(cctx, completion.Request{
		Model: c.conf.Model,
		Messages: []completion.Message{
			{Role: completion.RoleSystem, Content: systemPrompt},
			{Role: completion.RoleUser, Content: buildBatchPrompt(askedTexts)},
		},
		Temperature: c.conf.Temperature,
		MaxTokens:   c.conf.MaxTokens,
	})
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("batch completion call failed, falling back to single-text calls")
		return c.classifyIndividually(ctx, texts)
	}

	blocks, ok := parseBatchResponse(raw)
	if !ok {
		log.Warn().Msg("unparseable batch completion response, falling back to single-text calls")
		return c.classifyIndividually(ctx, texts)
	}

	for _, block := range blocks {
		if block.TextIndex < 1 || block.TextIndex > len(asked) {
			log.Warn().Int("text_index", block.TextIndex).Msg("ignoring out of range batch block")
			continue
		}
		i := asked[block.TextIndex-1]
		entities := applyLoneEntityRule(validateCandidates(block.Entities))
		c.store(strings.TrimSpace(texts[i]), entities)
		results[i] = entities
	}

	return results
}

// completionContext bounds one completion call with the configured
// timeout. Request contexts arrive without a deadline, so without this
// a hung provider would hold the request open indefinitely.
func (c *Classifier) completionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.conf.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.conf.Timeout)
}

func (c *Classifier) classifyIndividually(ctx context.Context, texts []string) [][]entity.LegalEntity {
	results := make([][]entity.LegalEntity, len(texts))
	for i, t := range texts {
		results[i] = c.Classify(ctx, t)
	}
	return results
}

// detectPersons runs the NER stage and keeps the person names.
func (c *Classifier) detectPersons(ctx context.Context, text string) ([]string, error) {
	entities, err := c.extraction.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entities {
		if e.Type == entity.TypePerson {
			names = append(names, e.Text)
		}
	}
	return names, nil
}

// degraded is the fallback when the completion call or its parse fails:
// the people detected by the NER stage, unclassified. Never cached, so a
// later request can try the completion service again.
func degraded(names []string) []entity.LegalEntity {
	entities := make([]entity.LegalEntity, len(names))
	for i, name := range names {
		entities[i] = entity.LegalEntity{Name: name, Role: entity.RoleUnknown, Confidence: 0.5}
	}
	return entities
}

// applyLoneEntityRule forces a sole validated entity to defendant. A
// legal text that mentions exactly one party is nearly always naming the
// accused.
func applyLoneEntityRule(entities []entity.LegalEntity) []entity.LegalEntity {
	if len(entities) == 1 {
		entities[0].Role = entity.RoleDefendant
		if entities[0].Confidence < 0.8 {
			entities[0].Confidence = 0.8
		}
	}
	return entities
}

func (c *Classifier) lookup(key string) ([]entity.LegalEntity, bool) {
	b, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	var entities []entity.LegalEntity
	if err := json.Unmarshal(b, &entities); err != nil {
		log.Warn().Err(err).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return entities, true
}

func (c *Classifier) store(key string, entities []entity.LegalEntity) {
	b, err := json.Marshal(entities)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode legal entities for cache")
		return
	}
	c.cache.Set(key, b)
}
