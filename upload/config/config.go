// Package config holds the named JSON configurations of the upload simulator
// and turns them into server, generator and stats settings.
package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/uploadq/common/stats"
	"github.com/twitter/uploadq/upload/generator"
	"github.com/twitter/uploadq/upload/server"
)

// JSONConfigs config structure holding original json configs
type JSONConfigs struct {
	Server    ServerJSONConfig    `json:"Server"`
	Generator GeneratorJSONConfig `json:"Generator"`
	Stats     StatsJSONConfig     `json:"Stats"`
}

func (c JSONConfigs) String() string {
	return fmt.Sprintf("\n%s\n%s\n%s", c.Server, c.Generator, c.Stats)
}

type ServerJSONConfig struct {
	Type         string `json:"Type"`         // pool
	NumSlots     int    `json:"NumSlots"`     // default to 5
	TickInterval string `json:"TickInterval"` // default to 100ms
	HistorySize  int    `json:"HistorySize"`  // default to 10000
	DebugMode    bool   `json:"DebugMode"`    // default to false
}

func (sc ServerJSONConfig) String() string {
	return fmt.Sprintf("ServerJSONConfig: Type: %s, NumSlots: %d, TickInterval: %s, HistorySize: %d, DebugMode: %t",
		sc.Type, sc.NumSlots, sc.TickInterval, sc.HistorySize, sc.DebugMode)
}

type GeneratorJSONConfig struct {
	Type              string  `json:"Type"`        // random
	MinInterval       string  `json:"MinInterval"` // default to 200ms
	MaxInterval       string  `json:"MaxInterval"` // default to 2000ms
	MinFiles          int     `json:"MinFiles"`
	MaxFiles          int     `json:"MaxFiles"`
	MinFileSize       int     `json:"MinFileSize"`
	MaxFileSize       int     `json:"MaxFileSize"`
	MaxArrivalsPerSec float64 `json:"MaxArrivalsPerSec"` // default to 0, unlimited
	Seed              int64   `json:"Seed"`              // default to 0, seeded from the clock
}

func (gc GeneratorJSONConfig) String() string {
	return fmt.Sprintf("GeneratorJSONConfig: Type: %s, Interval: [%s, %s], Files: [%d, %d], FileSize: [%d, %d], MaxArrivalsPerSec: %g, Seed: %d",
		gc.Type, gc.MinInterval, gc.MaxInterval, gc.MinFiles, gc.MaxFiles, gc.MinFileSize, gc.MaxFileSize, gc.MaxArrivalsPerSec, gc.Seed)
}

type StatsJSONConfig struct {
	Type string `json:"Type"` // finagle, nil
}

func (sc StatsJSONConfig) String() string {
	return fmt.Sprintf("StatsJSONConfig: Type: %s", sc.Type)
}

// ConfigNames returns the supported configuration selectors, sorted.
func ConfigNames() []string {
	keys := make([]string, 0, len(UploadConfigs))
	for k := range UploadConfigs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func GetConfigText(configSelector string) ([]byte, error) {
	configText, ok := UploadConfigs[configSelector]
	if !ok {
		return nil, fmt.Errorf("invalid configuration %s, supported values are %v", configSelector, ConfigNames())
	}
	return []byte(configText), nil
}

// GetConfig returns the named configuration with default sections filled in.
func GetConfig(configSelector string) (*JSONConfigs, error) {
	configText, err := GetConfigText(configSelector)
	if err != nil {
		return nil, err
	}
	return ParseConfig(configText)
}

// ParseConfig parses a JSON configuration. Sections whose Type is "" take the
// values of the default configuration.
func ParseConfig(configText []byte) (*JSONConfigs, error) {
	defaultConfig := &JSONConfigs{}
	if err := json.Unmarshal([]byte(UploadConfigs["default"]), defaultConfig); err != nil {
		return nil, fmt.Errorf("couldn't parse the default config: %v", err)
	}

	config := &JSONConfigs{}
	if err := json.Unmarshal(configText, config); err != nil {
		return nil, fmt.Errorf("couldn't parse top-level config: %v", err)
	}

	if config.Server.Type == "" {
		log.Infof("using default Server config")
		config.Server = defaultConfig.Server
	}
	if config.Generator.Type == "" {
		log.Infof("using default Generator config")
		config.Generator = defaultConfig.Generator
	}
	if config.Stats.Type == "" {
		log.Infof("using default Stats config")
		config.Stats = defaultConfig.Stats
	}
	return config, nil
}

func (sc *ServerJSONConfig) CreateServerConfig() (server.ServerConfiguration, error) {
	var err error
	config := server.ServerConfiguration{
		NumSlots:    sc.NumSlots,
		HistorySize: sc.HistorySize,
		DebugMode:   sc.DebugMode,
	}
	if sc.Type != "pool" {
		return config, fmt.Errorf("unknown Server type %q", sc.Type)
	}
	if sc.NumSlots < 0 {
		return config, fmt.Errorf("negative NumSlots %d", sc.NumSlots)
	}
	if sc.TickInterval != "" {
		config.TickInterval, err = time.ParseDuration(sc.TickInterval)
		if err != nil {
			return config, errors.Wrap(err, "bad Server TickInterval")
		}
	}
	return config, nil
}

// CreateGeneratorConfig starts from generator.DefaultConfig and overrides every field that is set.
func (gc *GeneratorJSONConfig) CreateGeneratorConfig() (generator.Config, error) {
	var err error
	config := generator.DefaultConfig()
	if gc.Type != "random" {
		return config, fmt.Errorf("unknown Generator type %q", gc.Type)
	}
	if gc.MinInterval != "" {
		if config.MinInterval, err = time.ParseDuration(gc.MinInterval); err != nil {
			return config, errors.Wrap(err, "bad Generator MinInterval")
		}
	}
	if gc.MaxInterval != "" {
		if config.MaxInterval, err = time.ParseDuration(gc.MaxInterval); err != nil {
			return config, errors.Wrap(err, "bad Generator MaxInterval")
		}
	}
	if gc.MinFiles != 0 {
		config.MinFiles = gc.MinFiles
	}
	if gc.MaxFiles != 0 {
		config.MaxFiles = gc.MaxFiles
	}
	if gc.MinFileSize != 0 {
		config.MinFileSize = gc.MinFileSize
	}
	if gc.MaxFileSize != 0 {
		config.MaxFileSize = gc.MaxFileSize
	}
	config.MaxArrivalsPerSec = gc.MaxArrivalsPerSec
	config.Seed = gc.Seed
	return config, nil
}

// CreateStatsReceiver returns the receiver and, for finagle, the registry behind it so it can be rendered.
func (sc *StatsJSONConfig) CreateStatsReceiver() (stats.StatsReceiver, stats.StatsRegistry, error) {
	switch sc.Type {
	case "finagle":
		registry := stats.NewFinagleStatsRegistry()
		return stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return registry }), registry, nil
	case "nil":
		return stats.NilStatsReceiver(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown Stats type %q", sc.Type)
}
