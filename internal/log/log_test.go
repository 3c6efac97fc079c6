package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goPresale/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presaled.log")
	logger, closer, err := Setup(config.LogConfig{Level: "warn", Format: "json", File: path})
	require.NoError(t, err)

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	logger.Info("dropped")
	logger.WithField("op", "Deposit").Warn("kept")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"op":"Deposit"`)
}

func TestSetupRejectsUnknownValues(t *testing.T) {
	_, _, err := Setup(config.LogConfig{Level: "loud", Format: "text"})
	assert.Error(t, err)
	_, _, err = Setup(config.LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
