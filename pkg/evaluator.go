package evoked

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"
)

// FittableTransform turns segments × channels × samples data into
// segments × features, after being fit on labelled training data.
type FittableTransform interface {
	Fit(data [][][]float64, labels []int) error
	Transform(data [][][]float64) ([][]float64, error)
}

// Classifier is fit on feature vectors and scores accuracy on held-out ones.
type Classifier interface {
	Fit(features [][]float64, labels []int) error
	Score(features [][]float64, labels []int) (float64, error)
}

// Pipeline pairs a supervised transform with a classifier. Each
// cross-validation split gets its own Pipeline so that parallel splits never
// share fitted state.
type Pipeline struct {
	Transform  FittableTransform
	Classifier Classifier
}

// PipelineFactory builds a fresh, unfitted Pipeline.
type PipelineFactory func() Pipeline

// ShuffleSplit generates a fixed number of random train/test partitions with
// a fixed test fraction. The same seed always yields the same partitions.
type ShuffleSplit struct {
	NSplits      int
	TestFraction float64
	Seed         int64
}

// Split holds the segment positions of one train/test partition.
type Split struct {
	Train []int
	Test  []int
}

func (g ShuffleSplit) Splits(n int) []Split {
	rng := rand.New(rand.NewSource(g.Seed))
	nTest := int(float64(n)*g.TestFraction + 0.5)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	splits := make([]Split, g.NSplits)
	for k := range splits {
		perm := rng.Perm(n)
		test := append([]int(nil), perm[:nTest]...)
		train := append([]int(nil), perm[nTest:]...)
		sort.Ints(test)
		sort.Ints(train)
		splits[k] = Split{Train: train, Test: test}
	}
	return splits
}

// EvaluatorConfig controls the sliding-window evaluation. The training
// window is fixed; the test window of WindowLength samples slides across the
// whole segment in steps of WindowStep. Sample offsets are relative to the
// segment start.
type EvaluatorConfig struct {
	TrainStart   int // first sample of the training window
	TrainEnd     int // one past the last sample of the training window
	WindowLength int
	WindowStep   int
	NSplits      int
	TestFraction float64
	Seed         int64
	NumWorkers   int
	Verbosity    int
	Log          Logger
}

// DecodingResult is a time-resolved accuracy curve. Scores[j] is the mean
// accuracy across splits of the test window starting at offset j*step; Times
// maps each window to the time of its center.
type DecodingResult struct {
	Times    []float64
	Scores   []float64
	Stddev   []float64
	PerSplit [][]float64 // split × offset
}

// SlidingWindowEvaluator fits a pipeline on a fixed training window and
// scores it on shifted test windows under repeated shuffled splits.
type SlidingWindowEvaluator struct {
	Config  EvaluatorConfig
	Factory PipelineFactory
}

type splitJob struct {
	index int
	split Split
}

type splitResult struct {
	index  int
	scores []float64
	err    error
}

// Evaluate runs every split and aggregates accuracy per window offset.
// Results are identical for a given seed regardless of NumWorkers: splits
// are independent, each worker fits its own pipeline, and aggregation is a
// per-offset mean, which does not care about completion order.
func (e *SlidingWindowEvaluator) Evaluate(set *SegmentSet) (*DecodingResult, error) {
	cfg := e.Config
	log := cfg.Log
	if log == nil {
		log = NopLogger{}
	}
	n := set.Len()
	if n == 0 {
		return nil, &ErrEmptySelection{Op: "evaluate"}
	}
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 segments to split, got %d", n)
	}
	if cfg.WindowLength < 1 || cfg.WindowLength > set.Length {
		return nil, fmt.Errorf("window length %d not in [1, %d]", cfg.WindowLength, set.Length)
	}
	if cfg.WindowStep < 1 {
		return nil, fmt.Errorf("window step must be positive, got %d", cfg.WindowStep)
	}
	if cfg.TrainStart < 0 || cfg.TrainEnd <= cfg.TrainStart || cfg.TrainEnd > set.Length {
		return nil, fmt.Errorf("training window [%d, %d) outside segment of %d samples", cfg.TrainStart, cfg.TrainEnd, set.Length)
	}

	labels := set.Labels()
	classes := uniqueLabels(labels)

	// Materialize once; splits only ever slice into this.
	data := make([][][]float64, n)
	for i := 0; i < n; i++ {
		data[i] = set.At(i)
	}

	generator := ShuffleSplit{NSplits: cfg.NSplits, TestFraction: cfg.TestFraction, Seed: cfg.Seed}
	splits := generator.Splits(n)
	for k, split := range splits {
		if label, ok := missingLabel(labels, split.Train, classes); ok {
			return nil, &ErrInsufficientData{Split: k, Label: label}
		}
		if label, ok := missingLabel(labels, split.Test, classes); ok {
			return nil, &ErrInsufficientData{Split: k, Label: label}
		}
	}

	var offsets []int
	for offset := 0; offset+cfg.WindowLength <= set.Length; offset += cfg.WindowStep {
		offsets = append(offsets, offset)
	}

	numWorkers := cfg.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	jobs := make(chan splitJob, len(splits))
	results := make(chan splitResult, len(splits))
	for w := 1; w <= numWorkers; w++ {
		go e.splitWorker(w, data, labels, offsets, jobs, results)
	}
	for k, split := range splits {
		jobs <- splitJob{index: k, split: split}
	}
	close(jobs)

	perSplit := make([][]float64, len(splits))
	for range splits {
		result := <-results
		if result.err != nil {
			return nil, fmt.Errorf("error evaluating split %d: %w", result.index, result.err)
		}
		perSplit[result.index] = result.scores
		if cfg.Verbosity > 1 {
			log.Info(fmt.Sprintf("Split %d done", result.index), "evaluator")
		}
	}

	result := &DecodingResult{
		Times:    make([]float64, len(offsets)),
		Scores:   make([]float64, len(offsets)),
		Stddev:   make([]float64, len(offsets)),
		PerSplit: perSplit,
	}
	column := make([]float64, len(splits))
	for j, offset := range offsets {
		for k := range perSplit {
			column[k] = perSplit[k][j]
		}
		mean, err := stats.Mean(column)
		if err != nil {
			return nil, fmt.Errorf("error aggregating scores: %w", err)
		}
		stddev, err := stats.StandardDeviation(column)
		if err != nil {
			return nil, fmt.Errorf("error aggregating scores: %w", err)
		}
		result.Scores[j] = mean
		result.Stddev[j] = stddev
		result.Times[j] = (float64(offset)+float64(cfg.WindowLength)/2)/set.Series.Rate + set.Tmin
	}
	if cfg.Verbosity > 0 {
		log.Info(fmt.Sprintf("Evaluated %d splits over %d windows", len(splits), len(offsets)), "evaluator")
	}
	return result, nil
}

func (e *SlidingWindowEvaluator) splitWorker(id int, data [][][]float64, labels []int, offsets []int, jobs <-chan splitJob, results chan<- splitResult) {
	for job := range jobs {
		scores, err := e.evaluateSplit(data, labels, offsets, job.split)
		if err != nil {
			err = fmt.Errorf("worker %d: %w", id, err)
		}
		results <- splitResult{index: job.index, scores: scores, err: err}
	}
}

func (e *SlidingWindowEvaluator) evaluateSplit(data [][][]float64, labels []int, offsets []int, split Split) ([]float64, error) {
	cfg := e.Config
	pipeline := e.Factory()

	trainData := cropSegments(data, split.Train, cfg.TrainStart, cfg.TrainEnd)
	trainLabels := pickLabels(labels, split.Train)
	if err := pipeline.Transform.Fit(trainData, trainLabels); err != nil {
		return nil, fmt.Errorf("error fitting transform: %w", err)
	}
	trainFeatures, err := pipeline.Transform.Transform(trainData)
	if err != nil {
		return nil, fmt.Errorf("error transforming training data: %w", err)
	}
	if err := pipeline.Classifier.Fit(trainFeatures, trainLabels); err != nil {
		return nil, fmt.Errorf("error fitting classifier: %w", err)
	}

	testLabels := pickLabels(labels, split.Test)
	scores := make([]float64, len(offsets))
	for j, offset := range offsets {
		testData := cropSegments(data, split.Test, offset, offset+cfg.WindowLength)
		features, err := pipeline.Transform.Transform(testData)
		if err != nil {
			return nil, fmt.Errorf("error transforming window at offset %d: %w", offset, err)
		}
		score, err := pipeline.Classifier.Score(features, testLabels)
		if err != nil {
			return nil, fmt.Errorf("error scoring window at offset %d: %w", offset, err)
		}
		scores[j] = score
	}
	return scores, nil
}

// cropSegments slices the chosen segments to [start, end) without copying
// the sample data.
func cropSegments(data [][][]float64, picks []int, start, end int) [][][]float64 {
	cropped := make([][][]float64, len(picks))
	for i, p := range picks {
		segment := make([][]float64, len(data[p]))
		for ch := range data[p] {
			segment[ch] = data[p][ch][start:end]
		}
		cropped[i] = segment
	}
	return cropped
}

func pickLabels(labels []int, picks []int) []int {
	picked := make([]int, len(picks))
	for i, p := range picks {
		picked[i] = labels[p]
	}
	return picked
}

func uniqueLabels(labels []int) []int {
	seen := make(map[int]bool)
	var classes []int
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Ints(classes)
	return classes
}

func missingLabel(labels []int, picks []int, classes []int) (int, bool) {
	present := make(map[int]bool, len(classes))
	for _, p := range picks {
		present[labels[p]] = true
	}
	for _, class := range classes {
		if !present[class] {
			return class, true
		}
	}
	return 0, false
}
