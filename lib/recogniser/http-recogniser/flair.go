package http_recogniser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lexica-nlp/entity-recognition/lib"
	"github.com/lexica-nlp/entity-recognition/lib/entity"
	"github.com/lexica-nlp/entity-recognition/lib/recogniser"
)

// NewFlairClient returns a recogniser backed by the flair model sidecar.
// models is the ordered list of model identifiers tried on Load; the
// first one the sidecar can obtain wins. Every call to the sidecar is
// bounded by timeout, so a hung backend fails the request instead of
// holding it open.
func NewFlairClient(url string, models []string, timeout time.Duration) recogniser.Client {
	return &flair{
		url:        url,
		models:     models,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type flair struct {
	url        string
	models     []string
	httpClient lib.HttpClient
}

type loadRequest struct {
	Model string `json:"model"`
}

type predictRequest struct {
	Texts     []string `json:"texts"`
	BatchSize int      `json:"batch_size,omitempty"`
}

type predictResponse struct {
	Results [][]entity.Entity `json:"results"`
}

func (f *flair) Load(ctx context.Context) error {
	var lastErr error
	for _, model := range f.models {
		if err := f.post(ctx, "/load", loadRequest{Model: model}, nil); err != nil {
			log.Warn().Err(err).Str("model", model).Msg("failed to load model, trying next")
			lastErr = err
			continue
		}
		log.Info().Str("model", model).Msg("model loaded")
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no model identifiers configured")
	}
	return lastErr
}

func (f *flair) Predict(ctx context.Context, text string) ([]entity.Entity, error) {
	results, err := f.PredictBatch(ctx, []string{text}, 1)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("expected 1 result from model backend, got %d", len(results))
	}
	return results[0], nil
}

func (f *flair) PredictBatch(ctx context.Context, texts []string, batchSize int) ([][]entity.Entity, error) {
	var resp predictResponse
	if err := f.post(ctx, "/predict", predictRequest{Texts: texts, BatchSize: batchSize}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) != len(texts) {
		return nil, fmt.Errorf("expected %d results from model backend, got %d", len(texts), len(resp.Results))
	}
	return resp.Results, nil
}

func (f *flair) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model backend returned %d: %s", resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
