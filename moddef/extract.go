package moddef

import (
	"encoding/json"
	"errors"
)

var errEmpty = errors.New("must not be empty")

// ModExtract asks the host to copy or extract Path to Target.
type ModExtract struct {
	Path   string `json:"Path"`
	Target string `json:"Target"`
}

// Validate checks that both fields are set.
func (x ModExtract) Validate() error {
	if x.Path == "" {
		return &ConfigError{Field: "Path", Value: x.Path, Err: errEmpty}
	}
	if x.Target == "" {
		return &ConfigError{Field: "Target", Value: x.Target, Err: errEmpty}
	}
	return nil
}

// UnmarshalJSON decodes and validates an extract. Absent keys are a
// ParseError, empty values a ConfigError.
func (x *ModExtract) UnmarshalJSON(data []byte) error {
	var aux struct {
		Path   *string `json:"Path"`
		Target *string `json:"Target"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return &ParseError{Err: err}
	}
	if aux.Path == nil {
		return &ParseError{Field: "Path"}
	}
	if aux.Target == nil {
		return &ParseError{Field: "Target"}
	}

	out := ModExtract{Path: *aux.Path, Target: *aux.Target}
	if err := out.Validate(); err != nil {
		return err
	}
	*x = out
	return nil
}
