package mada

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

type Configuration struct {
	ClockDepth       int    `json:"clock_depth"`
	ExpectedSamples  int    `json:"expected_samples"`
	BaselineStart    int    `json:"baseline_start"`
	BaselineEnd      int    `json:"baseline_end"`
	NumWorkers       int    `json:"num_workers"`
	Verbosity        int    `json:"verbosity"`
	FileOut          string `json:"file_out"`
	CompressionLevel int    `json:"compression_level"`
	HistogramBins    int    `json:"histogram_bins"`
	CachePath        string `json:"cache_path"`
	NoDB             bool   `json:"no_db"`
	Run              string `json:"run"`
	Host             string `json:"host"`
	User             string `json:"user"`
	Passwd           string `json:"pass"`
	DBName           string `json:"dbname"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		ClockDepth:       DefaultClockDepth,
		ExpectedSamples:  DefaultClockDepth,
		BaselineStart:    600,
		BaselineEnd:      1000,
		NumWorkers:       1,
		Verbosity:        0,
		CompressionLevel: 4,
		HistogramBins:    10000,
		NoDB:             true,
		Host:             "localhost",
		User:             "madareader",
		DBName:           "MADA",
	}
}

// LoadConfiguration reads a JSON or YAML file on top of the default values.
// An empty filename returns the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, config.Validate()
}

func (c Configuration) Validate() error {
	if c.ClockDepth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidClockDepth, c.ClockDepth)
	}
	if c.NumWorkers < 1 {
		return fmt.Errorf("num_workers must be at least 1, got %d", c.NumWorkers)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return fmt.Errorf("compression_level must be in [0, 9], got %d", c.CompressionLevel)
	}
	if c.HistogramBins < 1 {
		return fmt.Errorf("histogram_bins must be at least 1, got %d", c.HistogramBins)
	}
	return c.AmplitudeWindow().Validate()
}

func (c Configuration) AmplitudeWindow() AmplitudeWindow {
	return AmplitudeWindow{
		ExpectedSamples: c.ExpectedSamples,
		BaselineStart:   c.BaselineStart,
		BaselineEnd:     c.BaselineEnd,
	}
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Clock depth: %d", config.ClockDepth), "config")
	logger.Info(fmt.Sprintf("Expected samples: %d", config.ExpectedSamples), "config")
	logger.Info(fmt.Sprintf("Baseline window: [%d, %d)", config.BaselineStart, config.BaselineEnd), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Histogram bins: %d", config.HistogramBins), "config")
	logger.Info(fmt.Sprintf("Cache path: %s", config.CachePath), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Run: %s", config.Run), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
}
