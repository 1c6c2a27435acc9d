package service

import (
	"errors"
	"fmt"
)

const (
	BadRequest          = 400
	NotFound            = 404
	InternalServerError = 500
	BadGateway          = 502
)

var (
	ErrParamInvalid      = errors.New("Invalid parameter")
	ErrStockNotFound     = errors.New("Stock not found")
	ErrIntervalInvalid   = errors.New("Invalid interval. Must be one of [1D 1W 1M 3M 1Y 5Y]")
	ErrRedditUnavailable = errors.New("Reddit API error")
	UnExpectedError      = errors.New("Unexpected error, please retry later")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:      BadRequest,
	ErrStockNotFound:     NotFound,
	ErrIntervalInvalid:   BadRequest,
	ErrRedditUnavailable: BadGateway,
	UnExpectedError:      InternalServerError,
}

// DetailError 在哨兵错误上附带具体描述
type DetailError struct {
	Err    error
	Detail string
}

func (e *DetailError) Error() string {
	return e.Detail
}

func (e *DetailError) Unwrap() error {
	return e.Err
}

func withDetail(err error, format string, args ...any) error {
	return &DetailError{Err: err, Detail: fmt.Sprintf(format, args...)}
}

// CodeOf 查找 err 对应的业务码
func CodeOf(err error) (int, bool) {
	for sentinel, code := range ErrorMap {
		if errors.Is(err, sentinel) {
			return code, true
		}
	}
	return 0, false
}
