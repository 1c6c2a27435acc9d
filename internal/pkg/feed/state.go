package feed

import (
	"SentimentTech/internal/pkg/swr"
	"fmt"
)

// Kind tags a fetch Result.
type Kind int

const (
	KindLoading Kind = iota
	KindFailed
	KindSucceeded
)

// Result is the fetch outcome for the current target.
type Result struct {
	Kind    Kind
	Records []Record
	Err     error
}

func Loading() Result { return Result{Kind: KindLoading} }

func Failed(err error) Result { return Result{Kind: KindFailed, Err: err} }

func Succeeded(records []Record) Result { return Result{Kind: KindSucceeded, Records: records} }

// FromSnapshot collapses a cache snapshot into a Result. In-flight with no
// data is Loading; any stored error wins over stale data.
func FromSnapshot(s swr.Snapshot[[]Record]) Result {
	switch {
	case s.Validating && !s.HasData:
		return Loading()
	case s.Err != nil:
		return Failed(s.Err)
	case !s.HasData:
		return Loading()
	default:
		return Succeeded(s.Data)
	}
}

type RenderState string

const (
	StateLoading RenderState = "loading"
	StateError   RenderState = "error"
	StateEmpty   RenderState = "empty"
	StateReady   RenderState = "ready"
)

// View is the render-ready feed. Exactly one state applies.
type View struct {
	State   RenderState `json:"state"`
	Symbol  string      `json:"symbol"`
	Message string      `json:"message,omitempty"`
	Items   []PostView  `json:"items"`
}

func LoadingMessage() string {
	return "Loading Reddit posts..."
}

func ErrorMessage(err error) string {
	return "Error loading Reddit posts: " + err.Error()
}

func EmptyMessage(symbol string) string {
	return fmt.Sprintf("No Reddit posts found for %s.", symbol)
}

// Select picks the state to render for symbol from r.
func Select(symbol string, r Result, policy TimestampPolicy) View {
	v := View{Symbol: symbol, Items: []PostView{}}
	switch r.Kind {
	case KindLoading:
		v.State, v.Message = StateLoading, LoadingMessage()
		return v
	case KindFailed:
		v.State, v.Message = StateError, ErrorMessage(r.Err)
		return v
	}

	items, err := ToViews(r.Records, policy)
	if err != nil {
		v.State, v.Message = StateError, ErrorMessage(err)
		return v
	}
	if len(items) == 0 {
		v.State, v.Message = StateEmpty, EmptyMessage(symbol)
		return v
	}
	v.State, v.Items = StateReady, items
	return v
}
