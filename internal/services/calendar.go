package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

const calendarNotConfigured = "Calendar access is not configured. Set up Google credentials to enable calendar features."

// Retriever is the slice of the retrieval service the orchestrators need.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievalResult, error)
}

// CalendarOrchestrator answers "what's on my calendar" style requests. It
// lists events in a day window and enriches the answer with related notes
// from the knowledge base when any exist.
type CalendarOrchestrator struct {
	calendar  CalendarClient
	retriever Retriever
}

func NewCalendarOrchestrator(calendar CalendarClient, retriever Retriever) *CalendarOrchestrator {
	return &CalendarOrchestrator{calendar: calendar, retriever: retriever}
}

// Upcoming formats the events in [now, now+days]. A nil calendar client
// means Google integration was never configured; that is a user-facing
// message, not an error.
func (o *CalendarOrchestrator) Upcoming(ctx context.Context, days int) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "Calendar.Upcoming")
	defer span.End()
	span.SetAttributes(attribute.Int("window_days", days))

	if o.calendar == nil {
		return calendarNotConfigured, nil
	}

	now := time.Now()
	events, err := o.calendar.ListEvents(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return "", fmt.Errorf("listing calendar events: %w", err)
	}

	if len(events) == 0 {
		return fmt.Sprintf("No events found in the next %d days.", days), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are your events for the next %d days:\n\n", days)
	for _, ev := range events {
		fmt.Fprintf(&b, "- %s (%s)\n", ev.Summary, ev.Start)
		if ev.Description != "" {
			fmt.Fprintf(&b, "  %s\n", ev.Description)
		}
		if ev.Link != "" {
			fmt.Fprintf(&b, "  %s\n", ev.Link)
		}
	}

	o.appendRelatedNotes(ctx, &b, events)
	return strings.TrimRight(b.String(), "\n"), nil
}

// appendRelatedNotes searches the knowledge base with the concatenated
// event summaries. Retrieval failures are logged and skipped; a calendar
// answer without notes is still a good answer.
func (o *CalendarOrchestrator) appendRelatedNotes(ctx context.Context, b *strings.Builder, events []models.CalendarEvent) {
	if o.retriever == nil {
		return
	}

	summaries := make([]string, 0, len(events))
	for _, ev := range events {
		summaries = append(summaries, ev.Summary)
	}

	results, err := o.retriever.Retrieve(ctx, strings.Join(summaries, " "), DefaultTopK)
	if err != nil {
		log.Printf("⚠️  Skipping related notes lookup: %v", err)
		return
	}
	if len(results) == 0 {
		return
	}

	b.WriteString("\nRelated notes from your knowledge base:\n")
	for _, res := range results {
		fmt.Fprintf(b, "- %s: %s\n", res.Title, res.Content)
	}
}
