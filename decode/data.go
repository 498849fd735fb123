package main

import (
	"fmt"
	"os"

	evoked "github.com/openeeg/evoked_go/pkg"
)

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
