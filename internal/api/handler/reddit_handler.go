package handler

import (
	"SentimentTech/internal/pkg/logger"
	"SentimentTech/internal/pkg/response"
	"SentimentTech/internal/pkg/util"
	"SentimentTech/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RedditHandler struct {
	redditSvc service.RedditService
}

func NewRedditHandler(redditSvc service.RedditService) *RedditHandler {
	return &RedditHandler{
		redditSvc: redditSvc,
	}
}

// GetPosts 返回裸 JSON 数组，失败时返回非 2xx 与 detail
func (s *RedditHandler) GetPosts(c *gin.Context) {
	symbol, err := bindSymbol(c)
	if err != nil {
		response.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	symbol = util.NormalizeSymbol(symbol)
	ctx := logger.WithSymbol(c.Request.Context(), symbol)

	posts, err := s.redditSvc.GetPosts(ctx, symbol)
	if err != nil {
		if errors.Is(err, service.ErrParamInvalid) {
			response.Detail(c, http.StatusBadRequest, err.Error())
			return
		}
		log.ErrorContext(ctx, "fetch reddit posts failed", "err", err)
		msg := err.Error()
		if !errors.Is(err, service.ErrRedditUnavailable) {
			msg = "Reddit API error: " + msg
		}
		response.Detail(c, http.StatusInternalServerError, msg)
		return
	}
	c.JSON(http.StatusOK, posts)
}
