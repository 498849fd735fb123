package evoked

import (
	"fmt"
	"io"
	"strings"

	"github.com/OpenPSG/edf"
)

// ReadEDFSeries reads the first len(names) signals of an EDF/EDF+ recording
// into a Series. Channel names, groups and the sampling rate come from the
// caller (montage database or configuration); the file itself is handled
// entirely by the edf package. All channels must share one sampling rate.
func ReadEDFSeries(r io.ReadSeeker, names []string, types []string, rate float64) (*Series, error) {
	reader, err := edf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("error opening EDF file: %w", err)
	}

	data := make([][]float64, len(names))
	buffer := make([]float64, 4096)
	for i := range names {
		signal, err := reader.Signal(i)
		if err != nil {
			return nil, fmt.Errorf("error opening signal %d (%q): %w", i, names[i], err)
		}
		for {
			n, err := signal.Read(buffer)
			data[i] = append(data[i], buffer[:n]...)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("error reading signal %d (%q): %w", i, names[i], err)
			}
		}
	}

	for i := 1; i < len(data); i++ {
		if len(data[i]) != len(data[0]) {
			return nil, fmt.Errorf("signal %q has %d samples, %q has %d; mixed sampling rates are not supported",
				names[i], len(data[i]), names[0], len(data[0]))
		}
	}
	return NewSeries(data, rate, names, types)
}

// ChannelTypeFromLabel derives the channel group from an EDF signal label
// like "EEG Fpz-Cz" or "EOG horizontal".
func ChannelTypeFromLabel(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return "misc"
	}
	group := strings.ToLower(fields[0])
	switch group {
	case "eeg", "eog", "emg", "ecg", "resp", "temp":
		return group
	default:
		return "misc"
	}
}
