package feed

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/copier"
)

const targetPattern = "/api/stocks/%s/reddit"

// Target derives the request target for symbol. The symbol is not validated.
func Target(symbol string) string {
	return fmt.Sprintf(targetPattern, url.PathEscape(symbol))
}

// Record is a social post as served by /api/stocks/{symbol}/reddit.
type Record struct {
	ID            string   `json:"id"`
	Author        string   `json:"author"`
	Content       string   `json:"content"`
	Likes         int      `json:"likes"`
	Replies       int      `json:"replies"`
	Timestamp     string   `json:"timestamp"`
	Source        string   `json:"source"`
	StockMentions []string `json:"stockMentions" copier:"-"`
	// Sentiment comes from upstream analysis and is passed through untouched.
	Sentiment any `json:"sentiment" copier:"-"`
}

// PostView is what gets rendered for one Record.
type PostView struct {
	ID             string    `json:"id"`
	Author         string    `json:"author"`
	Content        string    `json:"content"`
	Likes          int       `json:"likes"`
	Replies        int       `json:"replies"`
	CreatedAt      time.Time `json:"createdAt"`
	TimestampValid bool      `json:"timestampValid"`
	Source         string    `json:"source"`
	StockMentions  []string  `json:"stockMentions" copier:"-"`
	Sentiment      any       `json:"sentiment" copier:"-"`
}

// TimestampPolicy decides what happens to a record whose timestamp does not parse.
type TimestampPolicy string

const (
	// PolicyKeep renders the record with a zero CreatedAt and TimestampValid=false.
	PolicyKeep TimestampPolicy = "keep"
	// PolicyDrop leaves the record out.
	PolicyDrop TimestampPolicy = "drop"
	// PolicyReject fails the whole batch.
	PolicyReject TimestampPolicy = "reject"
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ParsePolicy maps a config value to a policy. Empty means PolicyKeep.
func ParsePolicy(s string) (TimestampPolicy, error) {
	switch p := TimestampPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyKeep, nil
	case PolicyKeep, PolicyDrop, PolicyReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown timestamp policy %q", s)
	}
}

// ParseTimestamp reads an ISO-8601 date-time. RFC 3339 is tried first; other
// ISO-8601 shapes (no zone, date only) go through dateparse and are read as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrMalformedTimestamp
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	// dateparse 会把纯数字当作 unix 时间戳，ISO-8601 不允许这种写法
	if !strings.Contains(raw, "-") {
		return time.Time{}, ErrMalformedTimestamp
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, ErrMalformedTimestamp
	}
	return t, nil
}

// ToView maps rec to its view-model. keep is false when the policy drops the
// record. err is set when the copy fails or PolicyReject meets a bad timestamp.
func ToView(rec Record, policy TimestampPolicy) (view PostView, keep bool, err error) {
	if err = copier.Copy(&view, &rec); err != nil {
		return PostView{}, false, fmt.Errorf("map post %s: %w", rec.ID, err)
	}
	view.StockMentions = slices.Clone(rec.StockMentions)
	view.Sentiment = rec.Sentiment

	createdAt, perr := ParseTimestamp(rec.Timestamp)
	if perr == nil {
		view.CreatedAt, view.TimestampValid = createdAt, true
		return view, true, nil
	}

	switch policy {
	case PolicyDrop:
		return PostView{}, false, nil
	case PolicyReject:
		return PostView{}, false, fmt.Errorf("%w %q on post %s", ErrMalformedTimestamp, rec.Timestamp, rec.ID)
	default:
		return view, true, nil
	}
}

// ToViews maps records in order.
func ToViews(records []Record, policy TimestampPolicy) ([]PostView, error) {
	views := make([]PostView, 0, len(records))
	for _, rec := range records {
		view, keep, err := ToView(rec, policy)
		if err != nil {
			return nil, err
		}
		if keep {
			views = append(views, view)
		}
	}
	return views, nil
}
