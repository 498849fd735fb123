package evoked_test

import (
	"testing"

	evoked "github.com/openeeg/evoked_go/pkg"
	"github.com/stretchr/testify/require"
)

func TestNewSeriesValidation(t *testing.T) {
	data := [][]float64{make([]float64, 10), make([]float64, 10)}
	names := []string{"EEG C3", "EEG C4"}
	types := []string{"eeg", "eeg"}

	_, err := evoked.NewSeries(data, 0, names, types)
	require.Error(t, err)

	_, err = evoked.NewSeries(data, 100, names[:1], types)
	require.Error(t, err)

	_, err = evoked.NewSeries(nil, 100, nil, nil)
	require.Error(t, err)

	_, err = evoked.NewSeries(data, 100, []string{"EEG C3", "EEG C3"}, types)
	require.Error(t, err)

	ragged := [][]float64{make([]float64, 10), make([]float64, 9)}
	_, err = evoked.NewSeries(ragged, 100, names, types)
	require.Error(t, err)

	series, err := evoked.NewSeries(data, 100, names, types)
	require.NoError(t, err)
	require.Equal(t, 2, series.NumChannels())
	require.Equal(t, 10, series.NumSamples())
}

func TestSeriesPicks(t *testing.T) {
	data := [][]float64{make([]float64, 5), make([]float64, 5), make([]float64, 5)}
	series, err := evoked.NewSeries(data, 100,
		[]string{"EEG C3", "EOG h", "EEG C4"},
		[]string{"eeg", "eog", "eeg"})
	require.NoError(t, err)

	require.Equal(t, []int{0, 2}, series.Picks("eeg"))
	require.Equal(t, []int{1}, series.Picks("eog"))
	require.Equal(t, []int{0, 1, 2}, series.Picks(""))

	series.Bad = []string{"EEG C4"}
	require.Equal(t, []int{0}, series.Picks("eeg"))
	require.Equal(t, []int{0, 1}, series.Picks(""))
}
