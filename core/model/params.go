package model

import (
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

// FloatParam reads a float64 hyperparameter.
func FloatParam(key string, value interface{}) (float64, error) {
	v, ok := value.(float64)
	if !ok {
		return 0, scierrors.NewValidationError(key, "wrong type, want float64", value)
	}
	return v, nil
}

// IntParam reads an integer hyperparameter given as int, int32 or int64.
func IntParam(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	default:
		return 0, scierrors.NewValidationError(key, "wrong type, want an integer", value)
	}
}

// Int64Param reads a seed-like hyperparameter given as int, int32 or int64.
func Int64Param(key string, value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, scierrors.NewValidationError(key, "wrong type, want an integer", value)
	}
}
