package logging_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"taskboard/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		debug bool
		want  zapcore.Level
	}{
		{"default", "", false, zapcore.WarnLevel},
		{"info", "info", false, zapcore.InfoLevel},
		{"error", "ERROR", false, zapcore.ErrorLevel},
		{"debug flag wins", "error", true, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := logging.New(tt.level, tt.debug)
			require.NoError(t, err)
			require.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				require.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logging.New("loud", false)
	require.Error(t, err)
}
