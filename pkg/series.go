package evoked

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Series is a continuous multichannel recording. Data is channel-major:
// Data[i] holds all samples of channel i. A Series is treated as read-only
// once built; everything downstream (segments, averages) refers back to it
// without copying the raw samples.
type Series struct {
	Data  [][]float64
	Rate  float64  // sampling rate in Hz
	Names []string // unique channel names, same order as Data
	Types []string // channel group per channel, e.g. "eeg", "eog"
	Bad   []string // channels excluded from picks and rejection
}

func NewSeries(data [][]float64, rate float64, names []string, types []string) (*Series, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %g", rate)
	}
	if len(data) != len(names) || len(data) != len(types) {
		return nil, fmt.Errorf("got %d channels, %d names and %d types", len(data), len(names), len(types))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("series needs at least one channel")
	}
	nSamples := len(data[0])
	for i, channel := range data {
		if len(channel) != nSamples {
			return nil, fmt.Errorf("channel %q has %d samples, expected %d", names[i], len(channel), nSamples)
		}
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicated channel name %q", name)
		}
		seen[name] = true
	}
	return &Series{Data: data, Rate: rate, Names: names, Types: types}, nil
}

func (s *Series) NumChannels() int {
	return len(s.Data)
}

func (s *Series) NumSamples() int {
	if len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// Picks returns the indices of all good channels of the given group, in
// channel order. An empty group selects every good channel.
func (s *Series) Picks(group string) []int {
	picks := make([]int, 0, len(s.Data))
	for i := range s.Data {
		if slices.Contains(s.Bad, s.Names[i]) {
			continue
		}
		if group != "" && s.Types[i] != group {
			continue
		}
		picks = append(picks, i)
	}
	return picks
}
