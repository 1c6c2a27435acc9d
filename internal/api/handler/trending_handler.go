package handler

import (
	"SentimentTech/internal/pkg/response"
	"SentimentTech/internal/service"

	"github.com/gin-gonic/gin"
)

type TrendingHandler struct {
	trendingSvc service.TrendingService
}

func NewTrendingHandler(trendingSvc service.TrendingService) *TrendingHandler {
	return &TrendingHandler{
		trendingSvc: trendingSvc,
	}
}

func (s *TrendingHandler) GetTrendingStocks(c *gin.Context) {
	stocks, err := s.trendingSvc.GetTrendingStocks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stocks)
}

func (s *TrendingHandler) GetTrendingTopics(c *gin.Context) {
	topics, err := s.trendingSvc.GetTrendingTopics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, topics)
}
