package evoked_test

import (
	"math"
	"testing"

	evoked "github.com/openeeg/evoked_go/pkg"
	"github.com/stretchr/testify/require"
)

// decodableScenario builds 40 alternating-class segments where the class
// determines which channel carries the high-variance oscillation, the kind
// of structure a spatial filter separates perfectly.
func decodableScenario(t *testing.T) *evoked.SegmentSet {
	nSegments := 40
	segmentLength := 100
	data := [][]float64{
		make([]float64, nSegments*segmentLength),
		make([]float64, nSegments*segmentLength),
	}
	events := make([]evoked.Event, nSegments)
	for k := 0; k < nSegments; k++ {
		label := 1 + k%2
		events[k] = evoked.Event{Sample: k * segmentLength, Label: label}
		for i := 0; i < segmentLength; i++ {
			sample := k*segmentLength + i
			strong := 3 * math.Sin(1.3*float64(i))
			weak := 0.1 * math.Sin(0.9*float64(i))
			if label == 1 {
				data[0][sample] = strong
				data[1][sample] = weak
			} else {
				data[0][sample] = weak
				data[1][sample] = strong
			}
		}
	}
	series, err := evoked.NewSeries(data, 1.0, []string{"EEG C3", "EEG C4"}, []string{"eeg", "eeg"})
	require.NoError(t, err)

	set, err := evoked.BuildSegments(series, events, nil, evoked.SegmentConfig{Tmin: 0, Tmax: 99})
	require.NoError(t, err)
	require.Equal(t, nSegments, set.Len())
	return set
}

func cspFactory() evoked.Pipeline {
	return evoked.Pipeline{
		Transform:  &evoked.CSP{NComponents: 2},
		Classifier: &evoked.NearestCentroid{},
	}
}

func newEvaluator(numWorkers int) *evoked.SlidingWindowEvaluator {
	return &evoked.SlidingWindowEvaluator{
		Config: evoked.EvaluatorConfig{
			TrainStart:   0,
			TrainEnd:     100,
			WindowLength: 50,
			WindowStep:   25,
			NSplits:      5,
			TestFraction: 0.3,
			Seed:         7,
			NumWorkers:   numWorkers,
		},
		Factory: cspFactory,
	}
}

func TestEvaluateSeparableData(t *testing.T) {
	set := decodableScenario(t)

	result, err := newEvaluator(1).Evaluate(set)
	require.NoError(t, err)

	require.Equal(t, []float64{25, 50, 75}, result.Times)
	require.Len(t, result.PerSplit, 5)
	for _, scores := range result.Scores {
		require.Greater(t, scores, 0.9)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	set := decodableScenario(t)

	first, err := newEvaluator(1).Evaluate(set)
	require.NoError(t, err)
	second, err := newEvaluator(1).Evaluate(set)
	require.NoError(t, err)

	require.Equal(t, first.Scores, second.Scores)
	require.Equal(t, first.PerSplit, second.PerSplit)
}

func TestEvaluateParallelMatchesSerial(t *testing.T) {
	set := decodableScenario(t)

	serial, err := newEvaluator(1).Evaluate(set)
	require.NoError(t, err)
	parallel, err := newEvaluator(4).Evaluate(set)
	require.NoError(t, err)

	require.Equal(t, serial.Scores, parallel.Scores)
	require.Equal(t, serial.PerSplit, parallel.PerSplit)
}

func TestEvaluateInsufficientData(t *testing.T) {
	// A single segment of class 2 cannot be in both the training and the
	// test part of a split, so some side always misses it.
	nSegments := 6
	segmentLength := 20
	data := [][]float64{make([]float64, nSegments*segmentLength)}
	events := make([]evoked.Event, nSegments)
	for k := range events {
		label := 1
		if k == nSegments-1 {
			label = 2
		}
		events[k] = evoked.Event{Sample: k * segmentLength, Label: label}
	}
	series, err := evoked.NewSeries(data, 1.0, []string{"EEG Cz"}, []string{"eeg"})
	require.NoError(t, err)
	set, err := evoked.BuildSegments(series, events, nil, evoked.SegmentConfig{Tmin: 0, Tmax: 19})
	require.NoError(t, err)

	evaluator := newEvaluator(1)
	evaluator.Config.TrainEnd = 20
	evaluator.Config.WindowLength = 10
	evaluator.Config.WindowStep = 5

	_, err = evaluator.Evaluate(set)
	var insufficient *evoked.ErrInsufficientData
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, 2, insufficient.Label)
}

func TestEvaluateRejectsBadWindows(t *testing.T) {
	set := decodableScenario(t)

	evaluator := newEvaluator(1)
	evaluator.Config.WindowLength = 1000
	_, err := evaluator.Evaluate(set)
	require.Error(t, err)

	evaluator = newEvaluator(1)
	evaluator.Config.WindowStep = 0
	_, err = evaluator.Evaluate(set)
	require.Error(t, err)

	evaluator = newEvaluator(1)
	evaluator.Config.TrainEnd = 101
	_, err = evaluator.Evaluate(set)
	require.Error(t, err)
}

func TestShuffleSplitDeterministic(t *testing.T) {
	generator := evoked.ShuffleSplit{NSplits: 3, TestFraction: 0.2, Seed: 13}

	first := generator.Splits(20)
	second := generator.Splits(20)
	require.Equal(t, first, second)

	for _, split := range first {
		require.Len(t, split.Test, 4)
		require.Len(t, split.Train, 16)

		seen := make(map[int]bool)
		for _, i := range append(append([]int(nil), split.Train...), split.Test...) {
			require.False(t, seen[i], "index %d in both train and test", i)
			seen[i] = true
		}
		require.Len(t, seen, 20)
	}
}
