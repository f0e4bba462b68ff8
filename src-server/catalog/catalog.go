// Package catalog holds the fixed list of browsable events. The
// catalog is baked in at build time and is not user-editable; the
// created-events ledger is a separate thing entirely.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olebedev/when"
	"gopkg.in/yaml.v3"
)

//go:embed events.yaml
var rawCatalog []byte

type Event struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Date        string `yaml:"date" json:"date"`
	Location    string `yaml:"location" json:"location"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
	Attendees   int    `yaml:"attendees" json:"attendees"`
	Image       string `yaml:"image" json:"image"`
	Category    string `yaml:"category" json:"category"`
}

var events = func() []Event {
	var doc struct {
		Events []Event `yaml:"events"`
	}
	if err := yaml.Unmarshal(rawCatalog, &doc); err != nil {
		// the embedded document ships with the binary, a parse
		// failure here is a build defect
		panic(fmt.Sprintf("catalog: can't parse embedded events.yaml: %s", err))
	}
	return doc.Events
}()

func Events() []Event {
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// Case-insensitive filters; blank matches everything.
func Filter(category string, eventType string) []Event {
	out := make([]Event, 0, len(events))
	for _, event := range events {
		if category != "" && !strings.EqualFold(event.Category, category) {
			continue
		}
		if eventType != "" && !strings.EqualFold(event.Type, eventType) {
			continue
		}
		out = append(out, event)
	}
	return out
}

// Unknown ids fall back to the first event, the same lookup the
// registration page does.
func Lookup(id int) Event {
	for _, event := range events {
		if event.ID == id {
			return event
		}
	}
	return events[0]
}

func Exists(id int) bool {
	for _, event := range events {
		if event.ID == id {
			return true
		}
	}
	return false
}

// Best-effort parse of the catalog's free-text dates ("Nov 15, 2025",
// "Dec 1-3, 2025"). Returns the zero time when nothing parses.
func StartTime(parser *when.Parser, event Event, base time.Time) time.Time {
	text := event.Date
	// for ranges, the part before the dash is the start day
	if dash := strings.Index(text, "-"); dash >= 0 {
		if comma := strings.LastIndex(text, ","); comma > dash {
			text = text[:dash] + text[comma:]
		}
	}

	result, err := parser.Parse(text, base)
	if err != nil {
		slog.Debug("can't parse catalog date", "date", event.Date, "error", err)
		return time.Time{}
	}
	if result == nil {
		return time.Time{}
	}
	return result.Time
}

// Whether the event starts inside (now, now+window].
func StartsWithin(parser *when.Parser, event Event, now time.Time, window time.Duration) bool {
	start := StartTime(parser, event, now)
	if start.IsZero() {
		return false
	}
	return start.After(now) && !start.After(now.Add(window))
}
