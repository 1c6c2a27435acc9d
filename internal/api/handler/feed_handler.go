package handler

import (
	"SentimentTech/internal/pkg/feed"
	"SentimentTech/internal/pkg/response"
	"SentimentTech/internal/pkg/util"
	"SentimentTech/internal/service"
	"bytes"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const htmlContentType = "text/html; charset=utf-8"

type FeedHandler struct {
	feedSvc    service.FeedService
	renderWait time.Duration
}

func NewFeedHandler(feedSvc service.FeedService, renderWait time.Duration) *FeedHandler {
	return &FeedHandler{
		feedSvc:    feedSvc,
		renderWait: renderWait,
	}
}

// Page 渲染帖子列表页面，?fragment=1 只渲染列表片段
func (s *FeedHandler) Page(c *gin.Context) {
	symbol, err := feedSymbol(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	v := s.feedSvc.View(c.Request.Context(), symbol, util.ParseWait(c.Query("wait"), s.renderWait))
	render := feed.RenderPage
	if c.Query("fragment") == "1" {
		render = feed.Render
	}
	var buf bytes.Buffer
	if err = render(&buf, v); err != nil {
		log.ErrorContext(c.Request.Context(), "render feed failed", "err", err)
		c.String(http.StatusInternalServerError, service.UnExpectedError.Error())
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

// View 以 JSON 返回当前渲染状态
func (s *FeedHandler) View(c *gin.Context) {
	symbol, err := feedSymbol(c)
	if err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	v := s.feedSvc.View(c.Request.Context(), symbol, util.ParseWait(c.Query("wait"), s.renderWait))
	response.Success(c, v)
}
