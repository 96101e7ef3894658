package moddef

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every *ParseError.
// ErrConfig is matched by every *ConfigError.
var (
	ErrParse  = errors.New("manifest parse error")
	ErrConfig = errors.New("manifest config error")
)

type (
	// ParseError is returned when manifest text is malformed or a required
	// field is missing.
	ParseError struct {
		// Path is the manifest source path, when known.
		Path string
		// Field names the missing field (e.g. "Name", "Manifest[2].Path").
		Field string
		Err   error
	}

	// ConfigError is returned when a field is present but holds an invalid value.
	ConfigError struct {
		Path  string
		Field string
		Value string
		Err   error
	}
)

func (e *ParseError) Error() string {
	msg := "parse manifest"
	if e.Path != "" {
		msg += " " + e.Path
	}
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%s: field %s: %v", msg, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: missing required field %s", msg, e.Field)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying decode error, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrParse so callers can use errors.Is.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ConfigError) Error() string {
	msg := "invalid manifest value"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	msg += fmt.Sprintf(": %s=%q", e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// withPath stamps the manifest path onto err when it is one of ours and has
// no path yet. Nested entries don't know which file they came from.
func withPath(err error, path string) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Path == "" {
		pe.Path = path
		return pe
	}
	var ce *ConfigError
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = path
		return ce
	}
	return err
}

// prefixField qualifies the field of a nested error, e.g. "Path" becomes
// "Manifest[3].Path".
func prefixField(err error, prefix string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		if pe.Field != "" {
			pe.Field = prefix + "." + pe.Field
		} else {
			pe.Field = prefix
		}
		return err
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		ce.Field = prefix + "." + ce.Field
	}
	return err
}
