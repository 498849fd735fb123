package evoked

import (
	"encoding/json"
	"fmt"
	"os"
)

// Configuration is read from a JSON file passed with -config. Channel and
// condition metadata comes from the recordings database unless NoDB is set,
// in which case Channels and Conditions must be given here.
type Configuration struct {
	FileIn     string `json:"file_in"`
	EventsFile string `json:"events_file"`
	Verbosity  int    `json:"verbosity"`
	MaxEvents  int    `json:"max_events"`
	Skip       int    `json:"skip"`

	NoDB      bool   `json:"no_db"`
	Host      string `json:"host"`
	User      string `json:"user"`
	Passwd    string `json:"pass"`
	DBName    string `json:"dbname"`
	RunNumber int    `json:"run_number"`

	SamplingRate float64          `json:"sampling_rate"`
	Channels     []string         `json:"channels"`
	BadChannels  []string         `json:"bad_channels"`
	Conditions   map[string][]int `json:"conditions"`

	Tmin      float64            `json:"tmin"`
	Tmax      float64            `json:"tmax"`
	Baseline  *Window            `json:"baseline"`
	Rejection map[string]float64 `json:"rejection"`

	ContrastA string `json:"contrast_a"`
	ContrastB string `json:"contrast_b"`

	DecodeConditions []string `json:"decode_conditions"`
	TrainTmin        float64  `json:"train_tmin"`
	TrainTmax        float64  `json:"train_tmax"`
	WindowLength     int      `json:"window_length"`
	WindowStep       int      `json:"window_step"`
	NSplits          int      `json:"n_splits"`
	TestFraction     float64  `json:"test_fraction"`
	Seed             int64    `json:"seed"`
	CSPComponents    int      `json:"csp_components"`
	NumWorkers       int      `json:"num_workers"`
}

func LoadConfiguration(filename string) (Configuration, error) {
	var config Configuration

	// Set default values
	config.MaxEvents = 1000000000
	config.Verbosity = 0
	config.Skip = 0
	config.NoDB = false
	config.Host = "localhost"
	config.User = "reader"
	config.Passwd = "readonly"
	config.DBName = "recordings"
	config.Tmin = -0.2
	config.Tmax = 0.5
	config.WindowLength = 50
	config.WindowStep = 10
	config.NSplits = 10
	config.TestFraction = 0.2
	config.Seed = 42
	config.CSPComponents = 4
	config.NumWorkers = 1

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

// PrintConfiguration logs the settings both executables care about.
func PrintConfiguration(config Configuration, log Logger) {
	log.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	log.Info(fmt.Sprintf("Events file: %s", config.EventsFile), "config")
	log.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	log.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	log.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	log.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	log.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	log.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	log.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	log.Info(fmt.Sprintf("Window: (%g, %g) s", config.Tmin, config.Tmax), "config")
	if config.Baseline != nil {
		log.Info(fmt.Sprintf("Baseline: (%g, %g) s", config.Baseline.Tmin, config.Baseline.Tmax), "config")
	}
	log.Info(fmt.Sprintf("Rejection: %v", config.Rejection), "config")
	log.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
}
