package evoked_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenPSG/edf"
	evoked "github.com/openeeg/evoked_go/pkg"
	"github.com/stretchr/testify/require"
)

func writeTestEDF(t *testing.T) *os.File {
	f, err := os.OpenFile(filepath.Join(t.TempDir(), "test.edf"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          "Patient X",
		RecordingID:        "Recording 1",
		StartTime:          time.Now(),
		DataRecordDuration: time.Second,
		SignalCount:        2,
		Signals: []edf.Signal{
			{
				Label:             "EEG Fpz-Cz",
				TransducerType:    "AgAgCl electrode",
				PhysicalDimension: "uV",
				PhysicalMin:       -500,
				PhysicalMax:       500,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				SamplesPerRecord:  100,
			},
			{
				Label:             "EOG horizontal",
				TransducerType:    "AgAgCl electrode",
				PhysicalDimension: "uV",
				PhysicalMin:       -500,
				PhysicalMax:       500,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				SamplesPerRecord:  100,
			},
		},
	}

	writer, err := edf.Create(f, hdr)
	require.NoError(t, err)

	record := make([]float64, 100)
	for recordIndex := 0; recordIndex < 2; recordIndex++ {
		for i := range record {
			record[i] = float64(recordIndex*100 + i)
		}
		require.NoError(t, writer.WriteRecord([][]float64{record, record}))
	}
	require.NoError(t, writer.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	return f
}

func TestReadEDFSeries(t *testing.T) {
	f := writeTestEDF(t)

	names := []string{"EEG Fpz-Cz", "EOG horizontal"}
	types := []string{"eeg", "eog"}
	series, err := evoked.ReadEDFSeries(f, names, types, 100)
	require.NoError(t, err)

	require.Equal(t, 2, series.NumChannels())
	require.Equal(t, 200, series.NumSamples())
	require.Equal(t, names, series.Names)

	for i, v := range series.Data[0] {
		require.InDelta(t, float64(i), v, 1.0)
	}
	require.Equal(t, []int{0}, series.Picks("eeg"))
}

func TestChannelTypeFromLabel(t *testing.T) {
	require.Equal(t, "eeg", evoked.ChannelTypeFromLabel("EEG Fpz-Cz"))
	require.Equal(t, "eog", evoked.ChannelTypeFromLabel("EOG horizontal"))
	require.Equal(t, "misc", evoked.ChannelTypeFromLabel("Marker"))
	require.Equal(t, "misc", evoked.ChannelTypeFromLabel(""))
}
