// Package validation checks settings before a pipeline is built.
//
// Struct tags cover per-field rules; the programmatic Validator covers
// rules spanning several fields. Both report an InvalidSettings AppError.
//
// # Struct Tag Validation
//
//	type PipelineSettings struct {
//	    ChunkSize int `mapstructure:"chunk_size" validate:"min=1,max=1048576"`
//	}
//	err := validation.Validate(s)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(!s.Enabled || s.Endpoint != "", "telemetry.endpoint", "is required when telemetry is enabled")
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
