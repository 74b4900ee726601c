package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/config"
)

func TestSetupLevel(t *testing.T) {
	a, b := logrus.New(), logrus.New()
	require.NoError(t, Setup(config.Log{Level: "warn"}, a, b))
	assert.Equal(t, logrus.WarnLevel, a.GetLevel())
	assert.Equal(t, logrus.WarnLevel, b.GetLevel())
}

func TestSetupBadLevel(t *testing.T) {
	assert.Error(t, Setup(config.Log{Level: "loud"}, logrus.New()))
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mines.log")
	log := logrus.New()
	var console bytes.Buffer

	require.NoError(t, Setup(config.Log{
		Level:      "info",
		File:       path,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	}, log))
	log.SetOutput(&console)

	log.WithFields(logrus.Fields{"outcome": "won", "revealed": 71}).Info("round over")
	log.Debug("filtered")

	assert.Contains(t, console.String(), "round over")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "round over", entry["msg"])
	assert.Equal(t, "won", entry["outcome"])
	assert.EqualValues(t, 71, entry["revealed"])
}
