package evoked

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// AveragedResponse is the sample-wise mean over a set of segments. NTrials
// tracks the effective number of trials for noise scaling; contrasts make it
// fractional, so it is not an integer count.
type AveragedResponse struct {
	Data    [][]float64
	NTrials float64
	Tmin    float64
	Rate    float64
	Names   []string
}

// Average computes the elementwise mean over every segment in the set.
func Average(set *SegmentSet) (*AveragedResponse, error) {
	if set.Len() == 0 {
		return nil, &ErrEmptySelection{Op: "average"}
	}
	nChannels := set.Series.NumChannels()
	data := make([][]float64, nChannels)
	for ch := range data {
		data[ch] = make([]float64, set.Length)
	}
	for i := 0; i < set.Len(); i++ {
		segment := set.At(i)
		for ch := range data {
			floats.Add(data[ch], segment[ch])
		}
	}
	scale := 1 / float64(set.Len())
	for ch := range data {
		floats.Scale(scale, data[ch])
	}
	return &AveragedResponse{
		Data:    data,
		NTrials: float64(set.Len()),
		Tmin:    set.Tmin,
		Rate:    set.Series.Rate,
		Names:   append([]string(nil), set.Series.Names...),
	}, nil
}

// Combine forms the weighted sum of the responses. The weights need not sum
// to one; a contrast like A minus B is weights (1, -1). The combined trial
// count follows the noise-variance rule n = 1/Σ(wᵢ²/nᵢ), since averaging n
// trials scales noise variance by 1/n and a plain sum of counts would
// overstate the reduction.
func Combine(responses []*AveragedResponse, weights []float64) (*AveragedResponse, error) {
	if len(responses) == 0 || len(responses) != len(weights) {
		return nil, &ErrDimensionMismatch{
			Want: fmt.Sprintf("%d weights", len(responses)),
			Got:  fmt.Sprintf("%d weights", len(weights)),
		}
	}
	first := responses[0]
	nChannels := len(first.Data)
	data := make([][]float64, nChannels)
	for ch := range data {
		data[ch] = make([]float64, len(first.Data[ch]))
	}
	inverse := 0.0
	for k, response := range responses {
		if len(response.Data) != nChannels {
			return nil, &ErrDimensionMismatch{
				Want: fmt.Sprintf("%d channels", nChannels),
				Got:  fmt.Sprintf("%d channels", len(response.Data)),
			}
		}
		for ch := range data {
			if len(response.Data[ch]) != len(data[ch]) {
				return nil, &ErrDimensionMismatch{
					Want: fmt.Sprintf("%d samples", len(data[ch])),
					Got:  fmt.Sprintf("%d samples", len(response.Data[ch])),
				}
			}
			floats.AddScaled(data[ch], weights[k], response.Data[ch])
		}
		inverse += weights[k] * weights[k] / response.NTrials
	}
	return &AveragedResponse{
		Data:    data,
		NTrials: 1 / inverse,
		Tmin:    first.Tmin,
		Rate:    first.Rate,
		Names:   append([]string(nil), first.Names...),
	}, nil
}

// Times returns the time axis in seconds relative to the event.
func (r *AveragedResponse) Times() []float64 {
	times := make([]float64, 0)
	if len(r.Data) > 0 {
		times = make([]float64, len(r.Data[0]))
		for i := range times {
			times[i] = r.Tmin + float64(i)/r.Rate
		}
	}
	return times
}

// Peak finds the channel, time and value of the largest absolute amplitude.
func (r *AveragedResponse) Peak() (string, float64, float64) {
	bestChannel := ""
	bestTime := 0.0
	bestValue := 0.0
	for ch, row := range r.Data {
		for i, v := range row {
			if math.Abs(v) >= math.Abs(bestValue) {
				bestChannel = r.Names[ch]
				bestTime = r.Tmin + float64(i)/r.Rate
				bestValue = v
			}
		}
	}
	return bestChannel, bestTime, bestValue
}
