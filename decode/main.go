package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	evoked "github.com/openeeg/evoked_go/pkg"
)

var configuration evoked.Configuration

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = evoked.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		evoked.PrintConfiguration(configuration, logger)
	}

	set, _, err := loadSegments()
	if err != nil {
		logger.Error(err.Error())
		return
	}
	fmt.Println("Total segments kept: ", set.Len())

	if len(configuration.DecodeConditions) > 0 {
		set, err = set.Select(evoked.ByAnyCondition(configuration.DecodeConditions...))
		if err != nil {
			logger.Error(err.Error())
			return
		}
		if VerbosityLevel > 0 {
			message := fmt.Sprintf("Decoding %d segments from conditions %v", set.Len(), configuration.DecodeConditions)
			logger.Info(message, "decode")
		}
	}

	rate := set.Series.Rate
	trainStart := int(math.Round((configuration.TrainTmin - configuration.Tmin) * rate))
	trainEnd := int(math.Round((configuration.TrainTmax-configuration.Tmin)*rate)) + 1

	evaluator := &evoked.SlidingWindowEvaluator{
		Config: evoked.EvaluatorConfig{
			TrainStart:   trainStart,
			TrainEnd:     trainEnd,
			WindowLength: configuration.WindowLength,
			WindowStep:   configuration.WindowStep,
			NSplits:      configuration.NSplits,
			TestFraction: configuration.TestFraction,
			Seed:         configuration.Seed,
			NumWorkers:   configuration.NumWorkers,
			Verbosity:    VerbosityLevel,
			Log:          logger,
		},
		Factory: func() evoked.Pipeline {
			return evoked.Pipeline{
				Transform:  &evoked.CSP{NComponents: configuration.CSPComponents},
				Classifier: &evoked.NearestCentroid{},
			}
		},
	}

	start := time.Now()
	result, err := evaluator.Evaluate(set)
	if err != nil {
		message := fmt.Errorf("Error evaluating: %w", err)
		logger.Error(message.Error())
		return
	}

	for j := range result.Times {
		message := fmt.Sprintf("t = %+.3f s: accuracy %.3f (std %.3f)", result.Times[j], result.Scores[j], result.Stddev[j])
		logger.Info(message, "decode")
	}

	duration := time.Since(start)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}
