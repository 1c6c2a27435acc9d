package handler

import (
	"SentimentTech/internal/api/dto"
	"SentimentTech/internal/pkg/response"
	"SentimentTech/internal/pkg/util"
	"SentimentTech/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockSvc service.StockService
}

func NewStockHandler(stockSvc service.StockService) *StockHandler {
	return &StockHandler{
		stockSvc: stockSvc,
	}
}

// GetStock 股票基本信息
func (s *StockHandler) GetStock(c *gin.Context) {
	symbol, err := bindSymbol(c)
	if err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	stock, err := s.stockSvc.GetStock(c.Request.Context(), symbol)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stock)
}

// GetPrice 历史价格
func (s *StockHandler) GetPrice(c *gin.Context) {
	symbol, err := bindSymbol(c)
	if err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	var query dto.PriceQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrIntervalInvalid)
		return
	}
	if err = util.ValidateDTO(&query); err != nil {
		response.Error(c, service.ErrIntervalInvalid)
		return
	}

	prices, err := s.stockSvc.GetPrice(c.Request.Context(), symbol, query.Interval)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prices)
}

// GetSentiment 情感概览
func (s *StockHandler) GetSentiment(c *gin.Context) {
	symbol, err := bindSymbol(c)
	if err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	sentiment, err := s.stockSvc.GetSentiment(c.Request.Context(), symbol)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sentiment)
}
