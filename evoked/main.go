package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
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

	start := time.Now()

	set, conditions, err := loadSegments()
	if err != nil {
		logger.Error(err.Error())
		return
	}
	fmt.Println("Total segments kept: ", set.Len())

	responses := make(map[string]*evoked.AveragedResponse)
	for _, name := range conditions.Names() {
		subset, err := set.Select(evoked.ByCondition(name))
		if err != nil {
			logger.Error(err.Error())
			return
		}
		response, err := evoked.Average(subset)
		if err != nil {
			var empty *evoked.ErrEmptySelection
			if errors.As(err, &empty) {
				logger.Info(fmt.Sprintf("Condition %q: no surviving segments", name), "average")
				continue
			}
			logger.Error(err.Error())
			return
		}
		responses[name] = response
		channel, peakTime, peakValue := response.Peak()
		message := fmt.Sprintf("Condition %q: %g trials, peak %.2f on %s at %+.3f s",
			name, response.NTrials, peakValue, channel, peakTime)
		logger.Info(message, "average")
	}

	if configuration.ContrastA != "" && configuration.ContrastB != "" {
		if err := reportContrast(responses); err != nil {
			logger.Error(err.Error())
			return
		}
	}

	duration := time.Since(start)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}

func reportContrast(responses map[string]*evoked.AveragedResponse) error {
	a, ok := responses[configuration.ContrastA]
	if !ok {
		return fmt.Errorf("contrast condition %q has no averaged response", configuration.ContrastA)
	}
	b, ok := responses[configuration.ContrastB]
	if !ok {
		return fmt.Errorf("contrast condition %q has no averaged response", configuration.ContrastB)
	}
	contrast, err := evoked.Combine([]*evoked.AveragedResponse{a, b}, []float64{1, -1})
	if err != nil {
		return fmt.Errorf("error combining responses: %w", err)
	}
	channel, peakTime, peakValue := contrast.Peak()
	message := fmt.Sprintf("Contrast %q - %q: %.1f effective trials, peak %.2f on %s at %+.3f s",
		configuration.ContrastA, configuration.ContrastB, contrast.NTrials, peakValue, channel, peakTime)
	logger.Info(message, "average")
	return nil
}

// loadSegments runs the shared part of both pipelines: metadata, raw series,
// event list, epoching.
func loadSegments() (*evoked.SegmentSet, *evoked.ConditionMap, error) {
	names, types, bad, conditions, err := loadMetadata()
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		return nil, nil, fmt.Errorf("Error opening file: %w", err)
	}
	defer file.Close()

	series, err := evoked.ReadEDFSeries(file, names, types, configuration.SamplingRate)
	if err != nil {
		return nil, nil, fmt.Errorf("Error reading series: %w", err)
	}
	series.Bad = bad
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Read %d channels with %d samples", series.NumChannels(), series.NumSamples())
		logger.Info(message, "main")
	}

	eventsFile, err := os.Open(configuration.EventsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("Error opening events file: %w", err)
	}
	defer eventsFile.Close()

	events, err := evoked.ReadEventsCSV(eventsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("Error reading events: %w", err)
	}
	if configuration.Skip > 0 && configuration.Skip < len(events) {
		events = events[configuration.Skip:]
	}
	if len(events) > configuration.MaxEvents {
		if VerbosityLevel > 0 {
			logger.Info("Max events reached", "main")
		}
		events = events[:configuration.MaxEvents]
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of events: %d", len(events))
		logger.Info(message, "main")
	}

	set, err := evoked.BuildSegments(series, events, conditions, evoked.SegmentConfig{
		Tmin:      configuration.Tmin,
		Tmax:      configuration.Tmax,
		Baseline:  configuration.Baseline,
		Rejection: configuration.Rejection,
		Verbosity: VerbosityLevel,
		Log:       logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("Error building segments: %w", err)
	}
	return set, conditions, nil
}

// loadMetadata resolves channel names, groups, bad channels and the
// condition map, either from the recordings database or from the
// configuration file when no_db is set.
func loadMetadata() ([]string, []string, []string, *evoked.ConditionMap, error) {
	if configuration.NoDB {
		names := configuration.Channels
		if len(names) == 0 {
			return nil, nil, nil, nil, fmt.Errorf("no_db is set but no channels configured")
		}
		types := make([]string, len(names))
		for i, name := range names {
			types[i] = evoked.ChannelTypeFromLabel(name)
		}
		conditions, err := evoked.NewConditionMap(configuration.Conditions)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("Error building condition map: %w", err)
		}
		return names, types, configuration.BadChannels, conditions, nil
	}

	dbConn, err := evoked.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("Error connection to database: %w", err)
	}
	defer dbConn.Close()

	montage, err := evoked.GetMontageFromDB(dbConn, configuration.RunNumber, VerbosityLevel, logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("Error reading montage: %w", err)
	}
	var names, types, bad []string
	for _, entry := range montage {
		names = append(names, entry.ChannelName)
		types = append(types, entry.ChannelType)
		if entry.Bad {
			bad = append(bad, entry.ChannelName)
		}
	}

	conditions, err := evoked.GetConditionsFromDB(dbConn, configuration.RunNumber, VerbosityLevel, logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("Error reading conditions: %w", err)
	}
	return names, types, bad, conditions, nil
}
