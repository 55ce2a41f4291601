// Package testlog builds loggers whose output lands in t.Log.
package testlog

import (
	"testing"

	"github.com/rs/zerolog"
)

func New(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t))
}
