package utils

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger; debug switches to the
// human readable development encoder at debug level.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
