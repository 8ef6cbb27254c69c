package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lexica-nlp/entity-recognition/lib"
	"github.com/lexica-nlp/entity-recognition/lib/cache"
	"github.com/lexica-nlp/entity-recognition/lib/cache/local"
	"github.com/lexica-nlp/entity-recognition/lib/cache/remote"
	"github.com/lexica-nlp/entity-recognition/lib/completion"
	"github.com/lexica-nlp/entity-recognition/lib/extraction"
	"github.com/lexica-nlp/entity-recognition/lib/legal"
	http_recogniser "github.com/lexica-nlp/entity-recognition/lib/recogniser/http-recogniser"
)

// config structure
type recognitionAPIConfig struct {
	LogLevel string `mapstructure:"log_level"`
	Server   struct {
		HttpPort int `mapstructure:"http_port"`
	}
	Auth          authConfig
	MinTextLength int `mapstructure:"min_text_length"`
	Cache         struct {
		Size    int
		Backend string
		Redis   struct {
			Host string
			Port int
		}
	}
	Ner struct {
		Url          string
		Models       []string
		MaxBatchSize int           `mapstructure:"max_batch_size"`
		Timeout      time.Duration `mapstructure:"timeout"`
	}
	Completion struct {
		ApiKey      string        `mapstructure:"api_key"`
		Model       string        `mapstructure:"model"`
		Temperature float64       `mapstructure:"temperature"`
		MaxTokens   int           `mapstructure:"max_tokens"`
		Timeout     time.Duration `mapstructure:"timeout"`
	}
}

var config recognitionAPIConfig

func initConfig() {
	err := lib.InitializeConfig("./config/recognition-api.yml", map[string]interface{}{
		"log_level": "info",
		"server": map[string]interface{}{
			"http_port": 8080,
		},
		"auth": map[string]interface{}{
			"api_key":         "",
			"require_api_key": false,
		},
		"min_text_length": 3,
		"cache": map[string]interface{}{
			"size":    1000,
			"backend": "local",
			"redis": map[string]interface{}{
				"host": "localhost",
				"port": 6379,
			},
		},
		"ner": map[string]interface{}{
			"url": "http://localhost:5000",
			"models": []string{
				"ner-multi",
				"cahya/bert-base-indonesian-NER",
				"cahya/xlm-roberta-base-indonesian-NER",
			},
			"max_batch_size": 32,
			"timeout":        "30s",
		},
		"completion": map[string]interface{}{
			"api_key":     "",
			"model":       "claude-3-5-haiku-20241022",
			"temperature": 0.1,
			"max_tokens":  1024,
			"timeout":     "30s",
		},
	}, &config)
	if err != nil {
		panic(err)
	}
}

func newCache(prefix string) cache.Client {
	if config.Cache.Backend == "redis" {
		return remote.NewRedisClient(remote.RedisConfig{
			Host:   config.Cache.Redis.Host,
			Port:   config.Cache.Redis.Port,
			Prefix: prefix,
		})
	}
	return local.New(config.Cache.Size)
}

func main() {
	initConfig()

	recogniser := http_recogniser.NewFlairClient(config.Ner.Url, config.Ner.Models, config.Ner.Timeout)
	extractionService := extraction.New(recogniser, newCache("ner"), extraction.Config{
		MinTextLength: config.MinTextLength,
		MaxBatchSize:  config.Ner.MaxBatchSize,
	})

	var completionClient completion.Client
	if config.Completion.ApiKey == "" {
		log.Warn().Msg("completion api key not set, legal entity analysis disabled")
	} else {
		completionClient = completion.NewAnthropicClient(config.Completion.ApiKey)
		log.Info().Str("model", config.Completion.Model).Msg("completion client initialised")
	}
	classifier := legal.New(completionClient, extractionService, newCache("legal"), legal.Config{
		MinTextLength: config.MinTextLength,
		Model:         config.Completion.Model,
		Temperature:   config.Completion.Temperature,
		MaxTokens:     config.Completion.MaxTokens,
		Timeout:       config.Completion.Timeout,
	})

	// Preload the model so the first request doesn't pay for it. A failed
	// load is retried on first use.
	ctx, cancel := context.WithTimeout(context.Background(), config.Ner.Timeout)
	if err := extractionService.EnsureLoaded(ctx); err != nil {
		log.Error().Err(err).Msg("model preload failed, will retry on first request")
	}
	cancel()

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s := server{
		controller: controller{extraction: extractionService, legal: classifier},
		auth:       config.Auth,
	}
	s.RegisterRoutes(r)

	if err := r.Run(fmt.Sprintf(":%d", config.Server.HttpPort)); err != nil {
		log.Fatal().Err(err).Send()
	}
}
