package handler

import (
	"SentimentTech/internal/pkg/consts"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct{}

func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

func (s *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    consts.ServiceTitle,
		"version": consts.ServiceVersion,
		"status":  "operational",
		"endpoints": []string{
			"/api/stocks/{symbol}",
			"/api/stocks/{symbol}/price",
			"/api/stocks/{symbol}/sentiment",
			"/api/stocks/{symbol}/reddit",
			"/api/trending/stocks",
			"/api/trending/topics",
			"/api/feed/{symbol}",
			"/dashboard/stocks/{symbol}/posts",
		},
	})
}
