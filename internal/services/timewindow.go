package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"
)

// DefaultWindowDays is used whenever the extractor cannot pull a usable
// number out of the message.
const DefaultWindowDays = 7

var firstInteger = regexp.MustCompile(`[0-9]+`)

// TimeWindowExtractor turns phrases like "next two weeks" into a day count
// for calendar queries. It asks the LLM to pick from a small closed set and
// then parses whatever comes back defensively.
type TimeWindowExtractor struct {
	gen Generator
}

func NewTimeWindowExtractor(gen Generator) *TimeWindowExtractor {
	return &TimeWindowExtractor{gen: gen}
}

// ExtractDays never fails: any unusable model output falls back to the
// default window.
func (e *TimeWindowExtractor) ExtractDays(ctx context.Context, message string) int {
	ctx, span := middleware.StartSpan(ctx, "TimeWindow.ExtractDays")
	defer span.End()

	prompt := fmt.Sprintf(`Extract the time range in days from this calendar request.
Answer with a single number from this set: 1, 2, 7, 14, 30.
If no time range is mentioned, answer 7.

Request: %s

Number:`, message)

	response := e.gen.Generate(ctx, prompt)
	return parseDays(response)
}

// parseDays takes the first integer token in the response. Zero, negative
// or missing numbers fall back to the default.
func parseDays(response string) int {
	token := firstInteger.FindString(response)
	if token == "" {
		return DefaultWindowDays
	}
	days, err := strconv.Atoi(token)
	if err != nil || days <= 0 {
		return DefaultWindowDays
	}
	return days
}
