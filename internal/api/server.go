// Package api exposes the recommendation pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"scheme-rag/internal/config"
	"scheme-rag/internal/helper"
	"scheme-rag/internal/models"
)

// Recommender is implemented by rag.RAG.
type Recommender interface {
	Query(ctx context.Context, query string) (*models.PromptResponse, error)
}

type recommendRequest struct {
	Query string `json:"query" binding:"required"`
}

type recommendResponse struct {
	Query      string             `json:"query"`
	Answer     string             `json:"answer"`
	AnswerHTML string             `json:"answer_html,omitempty"`
	Sources    []models.SourceRef `json:"sources"`
	Fallback   bool               `json:"fallback"`
	RequestID  string             `json:"request_id"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewRouter wires middleware and routes.
func NewRouter(cfg *config.ServerConfig, recommender Recommender) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AddAllowHeaders(requestIDHeader)
	router.Use(cors.New(corsCfg))
	router.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/recommend", recommendHandler(recommender))
	return router
}

func recommendHandler(recommender Recommender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recommendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		resp, err := recommender.Query(c.Request.Context(), req.Query)
		if err != nil {
			status, code := classify(err)
			log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Recommendation failed")
			respondWithError(c, status, code, err.Error())
			return
		}

		out := recommendResponse{
			Query:     resp.Query,
			Answer:    resp.Content,
			Sources:   resp.Sources,
			Fallback:  resp.Fallback,
			RequestID: c.GetString(requestIDKey),
		}
		if !resp.Fallback {
			html, err := helper.RenderMarkdown(resp.Content)
			if err != nil {
				log.Warn().Err(err).Msg("Rendering answer markdown")
			} else {
				out.AnswerHTML = html
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

func classify(err error) (int, string) {
	var authErr *models.AuthenticationError
	var apiErr *models.RemoteAPIError
	var buildErr *models.IndexBuildError
	switch {
	case errors.As(err, &authErr):
		return http.StatusBadGateway, "authentication_failed"
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "upstream_error"
	case errors.As(err, &buildErr):
		return http.StatusInternalServerError, "index_build_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondWithError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Error: code, Message: message})
}
