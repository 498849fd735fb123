package evoked

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Event marks a point in a Series with a small integer label code. Event
// lists are kept in sample order with no duplicated samples.
type Event struct {
	Sample int `csv:"sample"`
	Label  int `csv:"label"`
}

func ValidateEvents(events []Event) error {
	for i, event := range events {
		if event.Sample < 0 {
			return fmt.Errorf("event %d has negative sample %d", i, event.Sample)
		}
		if i > 0 && event.Sample <= events[i-1].Sample {
			return fmt.Errorf("event %d at sample %d is not after event %d at sample %d",
				i, event.Sample, i-1, events[i-1].Sample)
		}
	}
	return nil
}

// ReadEventsCSV reads a pre-extracted event list with "sample" and "label"
// columns. Extraction from a stimulus channel is the acquisition side's job;
// this only adapts its output.
func ReadEventsCSV(r io.Reader) ([]Event, error) {
	var events []Event
	if err := gocsv.Unmarshal(r, &events); err != nil {
		return nil, fmt.Errorf("error parsing events CSV: %w", err)
	}
	if err := ValidateEvents(events); err != nil {
		return nil, err
	}
	return events, nil
}
