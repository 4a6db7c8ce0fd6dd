package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
)

func TestFeed(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	location := "Basement studio"
	band := application.Band{ID: "b1", Name: "The Offbeats", Timezone: "Europe/Berlin"}
	rehearsals := []application.Rehearsal{
		{
			ID:       "r1",
			BandID:   "b1",
			Title:    "weekly run-through",
			Location: &location,
			Start:    time.Date(2024, time.March, 4, 19, 0, 0, 0, time.UTC),
			End:      time.Date(2024, time.March, 4, 21, 0, 0, 0, time.UTC),
		},
	}

	feed := Feed(band, rehearsals, now)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:r1@rehearsal-scheduler",
		"SUMMARY:weekly run-through",
		"LOCATION:Basement studio",
		"DTSTART:20240304T190000Z",
	} {
		if !strings.Contains(feed, want) {
			t.Errorf("feed missing %q:\n%s", want, feed)
		}
	}
}

func TestFeedEmptySchedule(t *testing.T) {
	t.Parallel()

	feed := Feed(application.Band{ID: "b1", Name: "The Offbeats"}, nil, time.Now())
	if !strings.Contains(feed, "BEGIN:VCALENDAR") {
		t.Fatalf("empty feed should still be a calendar:\n%s", feed)
	}
	if strings.Contains(feed, "BEGIN:VEVENT") {
		t.Fatalf("empty schedule should contain no events:\n%s", feed)
	}
}
