package reddit

import (
	"SentimentTech/internal/pkg/feed"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const SourceName = "reddit"

var (
	cashtagRe = regexp.MustCompile(`\$([A-Za-z]+)`)
	ageRe     = regexp.MustCompile(`^(\d+)\s*([mhd])(?:\s+ago)?$`)

	ErrBadAge = errors.New("unrecognised relative age")
)

// Comment is a post or comment as a source reports it, before it becomes a feed.Record.
type Comment struct {
	ID      string
	Author  string
	Content string
	Upvotes int
	Replies int
	// CreatedAt wins over Age when set.
	CreatedAt time.Time
	// Age is a relative age such as "2h ago". Listing results always carry
	// created_utc, so only sources that report a relative age set it.
	Age       string
	Source    string
	Subreddit string
	Sentiment any
}

// ParseAge reads relative ages like "2h ago", "15m" or "3d ago".
func ParseAge(age string) (time.Duration, error) {
	m := ageRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(age)))
	if m == nil {
		return 0, ErrBadAge
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ErrBadAge
	}
	unit := time.Hour
	switch m[2] {
	case "m":
		unit = time.Minute
	case "d":
		unit = 24 * time.Hour
	}
	return time.Duration(n) * unit, nil
}

// ExtractMentions returns the $TICKER cashtags in content, uppercased and
// de-duplicated in order of appearance, or nil when there are none.
func ExtractMentions(content string) []string {
	matches := cashtagRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		ticker := strings.ToUpper(m[1])
		if _, ok := seen[ticker]; ok {
			continue
		}
		seen[ticker] = struct{}{}
		out = append(out, ticker)
	}
	return out
}

// Transform converts c into the record served by /api/stocks/{symbol}/reddit.
func Transform(c Comment, now time.Time) (feed.Record, error) {
	created := c.CreatedAt
	if created.IsZero() {
		age, err := ParseAge(c.Age)
		if err != nil {
			return feed.Record{}, err
		}
		created = now.Add(-age)
	}
	source := c.Source
	if source == "" {
		source = SourceName
	}
	return feed.Record{
		ID:            c.ID,
		Author:        c.Author,
		Content:       c.Content,
		Likes:         c.Upvotes,
		Replies:       c.Replies,
		Timestamp:     created.UTC().Format(time.RFC3339),
		Source:        source,
		StockMentions: ExtractMentions(c.Content),
		Sentiment:     c.Sentiment,
	}, nil
}
