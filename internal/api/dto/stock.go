package dto

// SymbolDTO 路径中的股票代码
type SymbolDTO struct {
	Symbol string `uri:"symbol" validate:"required,max=12,printascii,excludesall=/?#"`
}

// PriceQueryDTO interval 缺省为 1D
type PriceQueryDTO struct {
	Interval string `form:"interval" validate:"omitempty,oneof=1D 1W 1M 3M 1Y 5Y"`
}

type StockDTO struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        string  `json:"volume"`
	MarketCap     string  `json:"market_cap"`
	PERatio       float64 `json:"pe_ratio"`
}

type PricePointDTO struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume *int64  `json:"volume,omitempty"`
}

type StockPriceDTO struct {
	Symbol   string          `json:"symbol"`
	Interval string          `json:"interval"`
	Data     []PricePointDTO `json:"data"`
}
