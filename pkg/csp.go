package evoked

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CSP is a common-spatial-patterns transform for two-class decoding. Fit
// estimates per-class covariances, whitens their composite and keeps the
// NComponents projections whose variance ratio discriminates the classes
// best. Transform projects segments and returns log-variance features.
type CSP struct {
	NComponents int

	filters *mat.Dense // components × channels
}

func (c *CSP) Fit(data [][][]float64, labels []int) error {
	classes := uniqueLabels(labels)
	if len(classes) != 2 {
		return fmt.Errorf("csp needs exactly 2 classes, got %d", len(classes))
	}
	if len(data) == 0 {
		return &ErrEmptySelection{Op: "csp fit"}
	}
	nChannels := len(data[0])

	covs := make(map[int]*mat.Dense, 2)
	counts := make(map[int]int, 2)
	for _, class := range classes {
		covs[class] = mat.NewDense(nChannels, nChannels, nil)
	}
	for i, segment := range data {
		x := segmentMatrix(segment)
		cov := mat.NewDense(nChannels, nChannels, nil)
		cov.Mul(x, x.T())
		cov.Scale(1/mat.Trace(cov), cov)
		covs[labels[i]].Add(covs[labels[i]], cov)
		counts[labels[i]]++
	}
	for _, class := range classes {
		covs[class].Scale(1/float64(counts[class]), covs[class])
	}

	composite := mat.NewDense(nChannels, nChannels, nil)
	composite.Add(covs[classes[0]], covs[classes[1]])

	// Whitening of the composite covariance.
	var eig mat.EigenSym
	if !eig.Factorize(symmetrize(composite), true) {
		return fmt.Errorf("composite covariance eigendecomposition failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	tolerance := 1e-10 * values[len(values)-1]
	rank := 0
	for _, v := range values {
		if v > tolerance {
			rank++
		}
	}
	if rank < 2 {
		return fmt.Errorf("composite covariance is rank deficient (rank %d)", rank)
	}
	whitening := mat.NewDense(rank, nChannels, nil)
	row := 0
	for j := len(values) - 1; j >= len(values)-rank; j-- {
		scale := 1 / math.Sqrt(values[j])
		for ch := 0; ch < nChannels; ch++ {
			whitening.Set(row, ch, scale*vectors.At(ch, j))
		}
		row++
	}

	// Diagonalize the whitened class covariance; extreme eigenvectors carry
	// the most class-specific variance.
	whitened := mat.NewDense(rank, rank, nil)
	var tmp mat.Dense
	tmp.Mul(whitening, covs[classes[0]])
	whitened.Mul(&tmp, whitening.T())

	var eigW mat.EigenSym
	if !eigW.Factorize(symmetrize(whitened), true) {
		return fmt.Errorf("whitened covariance eigendecomposition failed")
	}
	var rotations mat.Dense
	eigW.VectorsTo(&rotations)

	nComponents := c.NComponents
	if nComponents < 1 {
		nComponents = 4
	}
	if nComponents > rank {
		nComponents = rank
	}

	// Alternate between the two ends of the spectrum.
	picked := make([]int, 0, nComponents)
	low, high := 0, rank-1
	for len(picked) < nComponents {
		picked = append(picked, high)
		high--
		if len(picked) < nComponents {
			picked = append(picked, low)
			low++
		}
	}

	c.filters = mat.NewDense(nComponents, nChannels, nil)
	component := mat.NewDense(1, rank, nil)
	for i, j := range picked {
		for k := 0; k < rank; k++ {
			component.Set(0, k, rotations.At(k, j))
		}
		var filter mat.Dense
		filter.Mul(component, whitening)
		for ch := 0; ch < nChannels; ch++ {
			c.filters.Set(i, ch, filter.At(0, ch))
		}
	}
	return nil
}

// Transform projects each segment through the fitted filters and returns
// normalized log-variance features.
func (c *CSP) Transform(data [][][]float64) ([][]float64, error) {
	if c.filters == nil {
		return nil, fmt.Errorf("csp transform called before fit")
	}
	nComponents, _ := c.filters.Dims()
	features := make([][]float64, len(data))
	for i, segment := range data {
		var projected mat.Dense
		projected.Mul(c.filters, segmentMatrix(segment))

		variances := make([]float64, nComponents)
		total := 0.0
		for j := 0; j < nComponents; j++ {
			row := projected.RawRowView(j)
			variances[j] = variance(row)
			total += variances[j]
		}
		feature := make([]float64, nComponents)
		for j := range feature {
			feature[j] = math.Log(variances[j] / total)
		}
		features[i] = feature
	}
	return features, nil
}

func segmentMatrix(segment [][]float64) *mat.Dense {
	nChannels := len(segment)
	nSamples := len(segment[0])
	x := mat.NewDense(nChannels, nSamples, nil)
	for ch, samples := range segment {
		x.SetRow(ch, samples)
	}
	return x
}

func symmetrize(m *mat.Dense) *mat.SymDense {
	n, _ := m.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}
	return sym
}

func variance(samples []float64) float64 {
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	total := 0.0
	for _, v := range samples {
		d := v - mean
		total += d * d
	}
	return total / float64(len(samples))
}

// NearestCentroid classifies a feature vector by the closest class centroid
// in Euclidean distance.
type NearestCentroid struct {
	classes   []int
	centroids [][]float64
}

func (n *NearestCentroid) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 {
		return &ErrEmptySelection{Op: "classifier fit"}
	}
	if len(features) != len(labels) {
		return fmt.Errorf("got %d feature vectors for %d labels", len(features), len(labels))
	}
	n.classes = uniqueLabels(labels)
	nFeatures := len(features[0])
	n.centroids = make([][]float64, len(n.classes))
	counts := make([]int, len(n.classes))
	position := make(map[int]int, len(n.classes))
	for i, class := range n.classes {
		n.centroids[i] = make([]float64, nFeatures)
		position[class] = i
	}
	for i, feature := range features {
		p := position[labels[i]]
		for j, v := range feature {
			n.centroids[p][j] += v
		}
		counts[p]++
	}
	for i := range n.centroids {
		for j := range n.centroids[i] {
			n.centroids[i][j] /= float64(counts[i])
		}
	}
	return nil
}

func (n *NearestCentroid) Predict(feature []float64) int {
	best := 0
	bestDistance := math.Inf(1)
	for i, centroid := range n.centroids {
		distance := 0.0
		for j, v := range feature {
			d := v - centroid[j]
			distance += d * d
		}
		if distance < bestDistance {
			bestDistance = distance
			best = i
		}
	}
	return n.classes[best]
}

// Score returns the fraction of correctly classified feature vectors.
func (n *NearestCentroid) Score(features [][]float64, labels []int) (float64, error) {
	if len(features) == 0 {
		return 0, &ErrEmptySelection{Op: "classifier score"}
	}
	if len(features) != len(labels) {
		return 0, fmt.Errorf("got %d feature vectors for %d labels", len(features), len(labels))
	}
	correct := 0
	for i, feature := range features {
		if n.Predict(feature) == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(features)), nil
}
