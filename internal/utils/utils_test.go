package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	created := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(created, created.Add(time.Minute*-30)))
	assert.Equal(t, 14, DaysBetween(created, time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -2, DaysBetween(created, time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, DaysBetween(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))

	far := time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC)
	days := DaysBetween(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), far)
	assert.Equal(t, 136600, days)
	assert.Equal(t, far, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days))
	assert.Equal(t, -days, DaysBetween(far, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDateOnlyUsesUTCDay(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	got := DateOnly(time.Date(2025, 3, 10, 1, 0, 0, 0, zone))
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), got)
}

func TestHandleAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleAppError(rr, &AppError{
		StatusCode: http.StatusConflict,
		Code:       ErrCodeOperationNotAllowed,
		Message:    "nope",
		Details:    map[string]string{"reason": "sell_canceled_property"},
	})
	require.Equal(t, http.StatusConflict, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeOperationNotAllowed, body["code"])
	assert.Equal(t, "nope", body["message"])
	assert.Equal(t, map[string]any{"reason": "sell_canceled_property"}, body["details"])

	rr = httptest.NewRecorder()
	HandleAppError(rr, errors.New("raw"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeInternal, body["code"])
}

func TestValAndPtr(t *testing.T) {
	assert.Equal(t, 0, Val[int](nil))
	assert.Equal(t, 4, Val(Ptr(4)))
}

func TestConfigureLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()

	configureLogger(l, "estate-service", &buf, "debug", "json")
	l.WithField("property_id", "p1").Debug("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "estate-service", entry["app"])
	assert.Equal(t, "loaded", entry["msg"])
	assert.Equal(t, "p1", entry["property_id"])

	buf.Reset()
	configureLogger(l, "estate-service", &buf, "bogus", "")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	buf.Reset()
	l.Info("ready")
	assert.Contains(t, buf.String(), "[estate-service] ready")
	assert.NotContains(t, buf.String(), `"app"`)
}
