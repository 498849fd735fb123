package evoked

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/maps"
	"gonum.org/v1/gonum/floats"
)

// Window is a time interval in seconds relative to an event. Both bounds are
// inclusive; Tmin may be negative to reach before the event.
type Window struct {
	Tmin float64 `json:"tmin"`
	Tmax float64 `json:"tmax"`
}

// SegmentConfig controls epoching. Rejection maps a channel group to the
// maximum tolerated peak-to-peak amplitude within a segment; there is no
// built-in default, thresholds are data dependent and must come from the
// caller. A nil map disables rejection explicitly.
type SegmentConfig struct {
	Tmin      float64
	Tmax      float64
	Baseline  *Window // optional per-segment mean subtraction window
	Rejection map[string]float64
	Verbosity int
	Log       Logger
}

// Segment is one fixed-length window anchored to an event. Start is absolute
// in the Series; base carries per-channel baseline offsets when baseline
// correction is on.
type Segment struct {
	Event int
	Start int
	Label int
	base  []float64
}

// SegmentSet is the ordered list of valid segments surviving bounds checks
// and rejection. It is a view over the Series: subsetting produces another
// view, the samples are never copied until materialized with At.
type SegmentSet struct {
	Series     *Series
	Conditions *ConditionMap
	Segments   []Segment
	Length     int     // samples per segment
	Tmin       float64 // seconds relative to the event
}

// BuildSegments extracts one segment per event, silently dropping events
// whose window leaves the series bounds and segments whose peak-to-peak
// amplitude exceeds a configured group threshold. Surviving segments keep
// the original event order. Zero survivors is a valid outcome.
func BuildSegments(series *Series, events []Event, conditions *ConditionMap, cfg SegmentConfig) (*SegmentSet, error) {
	log := cfg.Log
	if log == nil {
		log = NopLogger{}
	}
	if err := ValidateEvents(events); err != nil {
		return nil, err
	}

	tminSamples := int(math.Round(cfg.Tmin * series.Rate))
	tmaxSamples := int(math.Round(cfg.Tmax * series.Rate))
	length := tmaxSamples - tminSamples + 1
	if length <= 0 {
		return nil, fmt.Errorf("window (%g, %g) is empty at %g Hz", cfg.Tmin, cfg.Tmax, series.Rate)
	}

	baseStart, baseEnd := 0, 0
	if cfg.Baseline != nil {
		baseStart = int(math.Round(cfg.Baseline.Tmin*series.Rate)) - tminSamples
		baseEnd = int(math.Round(cfg.Baseline.Tmax*series.Rate)) - tminSamples
		if baseStart < 0 || baseEnd < baseStart || baseEnd >= length {
			return nil, fmt.Errorf("baseline (%g, %g) outside segment window (%g, %g)",
				cfg.Baseline.Tmin, cfg.Baseline.Tmax, cfg.Tmin, cfg.Tmax)
		}
	}

	groups := maps.Keys(cfg.Rejection)
	sort.Strings(groups)

	set := &SegmentSet{
		Series:     series,
		Conditions: conditions,
		Segments:   make([]Segment, 0, len(events)),
		Length:     length,
		Tmin:       cfg.Tmin,
	}

	outOfBounds := 0
	rejected := 0
	for i, event := range events {
		start := event.Sample + tminSamples
		if start < 0 || start+length > series.NumSamples() {
			outOfBounds++
			if cfg.Verbosity > 1 {
				log.Info(fmt.Sprintf("Dropping event %d at sample %d: window out of bounds", i, event.Sample), "segments")
			}
			continue
		}
		if group, ok := exceedsThreshold(series, start, length, groups, cfg.Rejection); ok {
			rejected++
			if cfg.Verbosity > 1 {
				log.Info(fmt.Sprintf("Rejecting event %d at sample %d: peak-to-peak over %q threshold", i, event.Sample, group), "segments")
			}
			continue
		}
		segment := Segment{Event: i, Start: start, Label: event.Label}
		if cfg.Baseline != nil {
			segment.base = make([]float64, series.NumChannels())
			for ch := range series.Data {
				window := series.Data[ch][start+baseStart : start+baseEnd+1]
				segment.base[ch] = floats.Sum(window) / float64(len(window))
			}
		}
		set.Segments = append(set.Segments, segment)
	}
	if cfg.Verbosity > 0 {
		message := fmt.Sprintf("Kept %d of %d events (%d out of bounds, %d rejected)",
			set.Len(), len(events), outOfBounds, rejected)
		log.Info(message, "segments")
	}
	return set, nil
}

// exceedsThreshold checks each thresholded channel group independently, so
// the outcome for one segment never depends on any other segment.
func exceedsThreshold(series *Series, start int, length int, groups []string, rejection map[string]float64) (string, bool) {
	for _, group := range groups {
		threshold := rejection[group]
		for _, ch := range series.Picks(group) {
			window := series.Data[ch][start : start+length]
			if floats.Max(window)-floats.Min(window) > threshold {
				return group, true
			}
		}
	}
	return "", false
}

func (s *SegmentSet) Len() int {
	return len(s.Segments)
}

func (s *SegmentSet) Labels() []int {
	labels := make([]int, len(s.Segments))
	for i, segment := range s.Segments {
		labels[i] = segment.Label
	}
	return labels
}

// At materializes segment i as a channels × samples copy, with the baseline
// offset subtracted when baseline correction was configured.
func (s *SegmentSet) At(i int) [][]float64 {
	segment := s.Segments[i]
	data := make([][]float64, s.Series.NumChannels())
	for ch := range s.Series.Data {
		row := make([]float64, s.Length)
		copy(row, s.Series.Data[ch][segment.Start:segment.Start+s.Length])
		if segment.base != nil {
			floats.AddConst(-segment.base[ch], row)
		}
		data[ch] = row
	}
	return data
}

// Times returns the time axis in seconds relative to the event.
func (s *SegmentSet) Times() []float64 {
	times := make([]float64, s.Length)
	for i := range times {
		times[i] = s.Tmin + float64(i)/s.Series.Rate
	}
	return times
}

func (s *SegmentSet) subset(positions []int) *SegmentSet {
	segments := make([]Segment, len(positions))
	for i, p := range positions {
		segments[i] = s.Segments[p]
	}
	return &SegmentSet{
		Series:     s.Series,
		Conditions: s.Conditions,
		Segments:   segments,
		Length:     s.Length,
		Tmin:       s.Tmin,
	}
}
