package evoked_test

import (
	"testing"

	evoked "github.com/openeeg/evoked_go/pkg"
	"github.com/stretchr/testify/require"
)

func TestAverageMeanAndTrialCount(t *testing.T) {
	// Channel 0 is constant 2 during the first segment and 4 during the
	// second, so the average must be 3 everywhere.
	data := [][]float64{make([]float64, 100)}
	for i := 10; i < 30; i++ {
		data[0][i] = 2
	}
	for i := 50; i < 70; i++ {
		data[0][i] = 4
	}
	series, err := evoked.NewSeries(data, 1.0, []string{"EEG Cz"}, []string{"eeg"})
	require.NoError(t, err)

	events := []evoked.Event{{Sample: 10, Label: 1}, {Sample: 50, Label: 1}}
	set, err := evoked.BuildSegments(series, events, nil, evoked.SegmentConfig{Tmin: 0, Tmax: 19})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	response, err := evoked.Average(set)
	require.NoError(t, err)
	require.Equal(t, float64(set.Len()), response.NTrials)
	require.Len(t, response.Data, 1)
	require.Len(t, response.Data[0], 20)
	for _, v := range response.Data[0] {
		require.InDelta(t, 3, v, 1e-12)
	}
}

func constantResponse(value float64, nTrials float64) *evoked.AveragedResponse {
	data := [][]float64{make([]float64, 10), make([]float64, 10)}
	for ch := range data {
		for i := range data[ch] {
			data[ch][i] = value
		}
	}
	return &evoked.AveragedResponse{
		Data:    data,
		NTrials: nTrials,
		Tmin:    -0.1,
		Rate:    100,
		Names:   []string{"EEG C3", "EEG C4"},
	}
}

func TestCombineContrast(t *testing.T) {
	a := constantResponse(5, 55)
	b := constantResponse(2, 61)

	contrast, err := evoked.Combine([]*evoked.AveragedResponse{a, b}, []float64{1, -1})
	require.NoError(t, err)

	// 1/(1/55 + 1/61) is the effective trial count of the contrast.
	require.InDelta(t, 28.92, contrast.NTrials, 0.01)
	for ch := range contrast.Data {
		for _, v := range contrast.Data[ch] {
			require.InDelta(t, 3, v, 1e-12)
		}
	}
}

func TestCombineEqualWeightsMatchesVarianceRule(t *testing.T) {
	a := constantResponse(1, 10)
	b := constantResponse(1, 40)

	sum, err := evoked.Combine([]*evoked.AveragedResponse{a, b}, []float64{0.5, 0.5})
	require.NoError(t, err)
	// 1/(0.25/10 + 0.25/40) = 32
	require.InDelta(t, 32, sum.NTrials, 1e-9)
}

func TestCombineDimensionMismatch(t *testing.T) {
	a := constantResponse(1, 10)
	short := &evoked.AveragedResponse{
		Data:    [][]float64{make([]float64, 5), make([]float64, 5)},
		NTrials: 10,
		Rate:    100,
		Names:   []string{"EEG C3", "EEG C4"},
	}

	var mismatch *evoked.ErrDimensionMismatch
	_, err := evoked.Combine([]*evoked.AveragedResponse{a, short}, []float64{1, -1})
	require.ErrorAs(t, err, &mismatch)

	_, err = evoked.Combine([]*evoked.AveragedResponse{a}, []float64{1, -1})
	require.ErrorAs(t, err, &mismatch)

	_, err = evoked.Combine(nil, nil)
	require.ErrorAs(t, err, &mismatch)
}

func TestAveragedResponseTimesAndPeak(t *testing.T) {
	response := constantResponse(1, 4)
	response.Data[1][7] = -3 // largest absolute amplitude

	times := response.Times()
	require.Len(t, times, 10)
	require.InDelta(t, -0.1, times[0], 1e-12)
	require.InDelta(t, -0.01, times[9], 1e-12)

	channel, peakTime, peakValue := response.Peak()
	require.Equal(t, "EEG C4", channel)
	require.InDelta(t, -0.1+0.07, peakTime, 1e-12)
	require.InDelta(t, -3, peakValue, 1e-12)
}
