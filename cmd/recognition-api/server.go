package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexica-nlp/entity-recognition/lib/entity"
)

const version = "1.0.0"

// ErrNotConfigured distinguishes a missing completion credential from a
// transient provider failure: fix your setup, don't retry.
var ErrNotConfigured = errors.New("completion credential not configured")

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller controller
	auth       authConfig
}

type authConfig struct {
	APIKey        string `mapstructure:"api_key"`
	RequireAPIKey bool   `mapstructure:"require_api_key"`
}

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

type batchNERRequest struct {
	Texts []string `json:"texts" binding:"required,min=1,max=100"`
}

type batchLegalRequest struct {
	Texts []string `json:"texts" binding:"required,min=1,max=10"`
}

type nerResponse struct {
	Entities []entity.Entity `json:"entities"`
	Text     string          `json:"text"`
}

type batchNERResponse struct {
	Results []nerResponse `json:"results"`
}

type legalResponse struct {
	Entities []entity.LegalEntity `json:"entities"`
	Text     string               `json:"text"`
}

type batchLegalResponse struct {
	Results []legalResponse `json:"results"`
}

func (s server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api", s.checkAPIKey)
	api.GET("/health", s.Health)
	api.POST("/ner", s.NER)
	api.POST("/ner/batch", s.NERBatch)
	api.POST("/legal-entities", s.LegalEntities)
	api.POST("/legal-entities/batch", s.LegalEntitiesBatch)
}

// checkAPIKey guards every route with the X-API-Key header when the
// config requires it. Missing key is 401, wrong key 403.
func (s server) checkAPIKey(c *gin.Context) {
	if !s.auth.RequireAPIKey {
		c.Next()
		return
	}

	key := c.GetHeader("X-API-Key")
	if key == "" {
		handleError(c, NewHttpError(http.StatusUnauthorized, errors.New("API key is missing - provide one in the X-API-Key header")))
		return
	}
	if key != s.auth.APIKey {
		handleError(c, NewHttpError(http.StatusForbidden, errors.New("invalid API key")))
		return
	}
	c.Next()
}

func (s server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"model_loaded": s.controller.ModelLoaded(),
		"version":      version,
	})
}

func (s server) NER(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(http.StatusBadRequest, err))
		return
	}

	entities, err := s.controller.Extract(c.Request.Context(), req.Text)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, nerResponse{Entities: entities, Text: req.Text})
}

func (s server) NERBatch(c *gin.Context) {
	var req batchNERRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(http.StatusBadRequest, err))
		return
	}

	batches, err := s.controller.ExtractBatch(c.Request.Context(), req.Texts)
	if err != nil {
		handleError(c, err)
		return
	}

	results := make([]nerResponse, len(batches))
	for i, entities := range batches {
		results[i] = nerResponse{Entities: entities, Text: req.Texts[i]}
	}
	c.JSON(http.StatusOK, batchNERResponse{Results: results})
}

func (s server) LegalEntities(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(http.StatusBadRequest, err))
		return
	}

	entities, err := s.controller.ClassifyLegal(c.Request.Context(), req.Text)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, legalResponse{Entities: entities, Text: req.Text})
}

func (s server) LegalEntitiesBatch(c *gin.Context) {
	var req batchLegalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(http.StatusBadRequest, err))
		return
	}

	batches, err := s.controller.ClassifyLegalBatch(c.Request.Context(), req.Texts)
	if err != nil {
		handleError(c, err)
		return
	}

	results := make([]legalResponse, len(batches))
	for i, entities := range batches {
		results[i] = legalResponse{Entities: entities, Text: req.Texts[i]}
	}
	c.JSON(http.StatusOK, batchLegalResponse{Results: results})
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, http.StatusInternalServerError, errors.New("abort called on nil error"))
		return
	}
	if errors.Is(err, ErrNotConfigured) {
		abort(c, http.StatusNotImplemented, err)
		return
	}
	switch e := err.(type) {
	case HttpError:
		abort(c, e.code, e.error)
	default:
		abort(c, http.StatusInternalServerError, e)
	}
}

func abort(c *gin.Context, code int, err error) {
	c.JSON(code, map[string]interface{}{
		"status":  code,
		"message": err.Error(),
	})
	c.Abort()
}
