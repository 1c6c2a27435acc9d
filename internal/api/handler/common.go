package handler

import (
	"SentimentTech/internal/api/dto"
	"SentimentTech/internal/pkg/util"
	"SentimentTech/internal/service"

	"github.com/gin-gonic/gin"
)

// bindSymbol 读取并校验路径中的 symbol
func bindSymbol(c *gin.Context) (string, error) {
	var req dto.SymbolDTO
	if err := c.ShouldBindUri(&req); err != nil {
		return "", err
	}
	if err := util.ValidateDTO(&req); err != nil {
		return "", err
	}
	return req.Symbol, nil
}

// feedSymbol 帖子列表按原样使用 symbol，只要求非空
func feedSymbol(c *gin.Context) (string, error) {
	symbol := c.Param("symbol")
	if symbol == "" {
		return "", service.ErrParamInvalid
	}
	return symbol, nil
}
