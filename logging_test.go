package mcpkg

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	logger, err := NewLogger("loud")
	assert.Nil(t, logger)
	assert.Error(t, err)
}
