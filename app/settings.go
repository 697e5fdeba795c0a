package app

import (
	"time"

	"github.com/kbukum/cypherstream/config"
	"github.com/kbukum/cypherstream/errors"
	"github.com/kbukum/cypherstream/stream"
	"github.com/kbukum/cypherstream/validation"
	"github.com/kbukum/cypherstream/version"
)

// ServiceName keys the settings file, the .env file and the environment
// variable prefix.
const ServiceName = "cypherstream"

const (
	defaultEndpoint       = "localhost:4318"
	defaultSampleRate     = 1.0
	defaultExportInterval = 15 * time.Second
)

// Settings is the process configuration loaded from the settings file and
// CYPHERSTREAM_* environment variables. The command line only names the
// chain and the endpoints; everything else lives here.
type Settings struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Pipeline             PipelineSettings  `yaml:"pipeline" mapstructure:"pipeline"`
	Telemetry            TelemetrySettings `yaml:"telemetry" mapstructure:"telemetry"`
}

// PipelineSettings tunes the engine.
type PipelineSettings struct {
	// ChunkSize is the maximum number of bytes read from the input per chunk.
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size" validate:"min=1,max=1048576"`
}

// TelemetrySettings configures OTLP export of run spans and metrics.
type TelemetrySettings struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"hostname_port"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval"`
}

// ApplyDefaults fills zero values. A zero sample rate means the default.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = ServiceName
	}
	if s.Version == "" {
		s.Version = version.GetShortVersion()
	}
	s.ServiceConfig.ApplyDefaults()

	if s.Pipeline.ChunkSize == 0 {
		s.Pipeline.ChunkSize = stream.DefaultChunkSize
	}
	if s.Telemetry.Endpoint == "" {
		s.Telemetry.Endpoint = defaultEndpoint
	}
	if s.Telemetry.SampleRate == 0 {
		s.Telemetry.SampleRate = defaultSampleRate
	}
	if s.Telemetry.ExportInterval == 0 {
		s.Telemetry.ExportInterval = defaultExportInterval
	}
}

// Validate checks the base service fields and the struct tags, and returns
// a single INVALID_SETTINGS error listing every problem.
func (s *Settings) Validate() error {
	v := validation.New()
	v.Merge("service", s.ServiceConfig.Validate())
	v.Merge("settings", validation.Validate(s))
	v.Custom(s.Telemetry.ExportInterval > 0, "telemetry.export_interval", "must be positive")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// LoadSettings reads settings for the service. Defaults and validation are
// applied later by New.
func LoadSettings(opts ...config.LoaderOption) (*Settings, error) {
	s := &Settings{}
	if err := config.LoadConfig(ServiceName, s, opts...); err != nil {
		return nil, errors.InvalidSettings(err.Error()).WithCause(err)
	}
	return s, nil
}
