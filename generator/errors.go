package generator

import (
	"errors"
	"fmt"
)

// ErrMissingCredential 未配置模型 API 密钥；在构建提示词和发起请求之前返回。
var ErrMissingCredential = errors.New("model api credential is not set")

// ParseErrorKind identifies which interpreter step rejected the model output.
type ParseErrorKind int

const (
	NoJSONBoundaries ParseErrorKind = iota + 1
	InvalidJSON
	MissingVariations
)

func (k ParseErrorKind) String() string {
	switch k {
	case NoJSONBoundaries:
		return "no_json_boundaries"
	case InvalidJSON:
		return "invalid_json"
	case MissingVariations:
		return "missing_variations"
	default:
		return "unknown"
	}
}

// ParseError is carried inside Result, never returned as a Go error by Interpret.
type ParseError struct {
	Kind  ParseErrorKind
	Cause error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case NoJSONBoundaries:
		return "model output contains no JSON object"
	case InvalidJSON:
		if e.Cause != nil {
			return fmt.Sprintf("model output is not valid JSON: %v", e.Cause)
		}
		return "model output is not valid JSON"
	case MissingVariations:
		return `model output has no "variations" array`
	default:
		return "model output could not be parsed"
	}
}

func (e *ParseError) Unwrap() error { return e.Cause }

// TransportError wraps a failed model call. The cause is kept verbatim.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: request failed (%d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
