package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	prev := Log
	Log = slog.New(slog.NewTextHandler(buf, nil))
	t.Cleanup(func() { Log = prev })
	return buf
}

func TestGormLogger_TraceSuppressesRecordNotFound(t *testing.T) {
	buf := captureLog(t)
	gl := NewGormLogger(logger.Error, 0)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM payments WHERE transaction_ref = $1", 0
	}, logger.ErrRecordNotFound)

	assert.NotContains(t, buf.String(), "SQL Error")
}

func TestGormLogger_TraceLogsRealErrors(t *testing.T) {
	buf := captureLog(t)
	gl := NewGormLogger(logger.Error, 0)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO payments", 0
	}, errors.New("connection reset"))

	assert.Contains(t, buf.String(), "SQL Error")
	assert.Contains(t, buf.String(), "connection reset")
}
