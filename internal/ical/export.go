// Package ical renders a band's rehearsal schedule as an iCalendar feed so
// members can subscribe from their calendar client of choice.
package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/example/rehearsal-scheduler/internal/application"
)

// Feed serializes the given rehearsals into an iCalendar document. Times are
// emitted in UTC; subscribing clients localize for display.
func Feed(band application.Band, rehearsals []application.Rehearsal, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//rehearsal-scheduler//EN")
	cal.SetName(band.Name)
	cal.SetDescription(fmt.Sprintf("Rehearsal schedule for %s", band.Name))

	for _, rehearsal := range rehearsals {
		event := cal.AddEvent(rehearsal.ID + "@rehearsal-scheduler")
		event.SetDtStampTime(now.UTC())
		event.SetStartAt(rehearsal.Start.UTC())
		event.SetEndAt(rehearsal.End.UTC())
		event.SetSummary(rehearsal.Title)
		if rehearsal.Description != nil {
			event.SetDescription(*rehearsal.Description)
		}
		if rehearsal.Location != nil {
			event.SetLocation(*rehearsal.Location)
		}
	}

	return cal.Serialize()
}
