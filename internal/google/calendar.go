package google

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"
)

// CalendarService lists events from the user's primary calendar.
type CalendarService struct {
	svc *calendar.Service
}

func NewCalendarService(ctx context.Context, ts oauth2.TokenSource) (*CalendarService, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return &CalendarService{svc: svc}, nil
}

// ListEvents returns the events in [timeMin, timeMax], recurring events
// expanded and ordered by start time.
func (c *CalendarService) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error) {
	resp, err := c.svc.Events.List("primary").
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	events := make([]models.CalendarEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, models.CalendarEvent{
			Summary:     item.Summary,
			Start:       eventStart(item),
			Description: item.Description,
			Link:        item.HtmlLink,
		})
	}
	return events, nil
}

// eventStart prefers the timed start and falls back to the all-day date.
func eventStart(event *calendar.Event) string {
	if event.Start == nil {
		return ""
	}
	if event.Start.DateTime != "" {
		return event.Start.DateTime
	}
	return event.Start.Date
}
