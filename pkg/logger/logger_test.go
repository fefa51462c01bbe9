package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)

	// Test that the printf helpers don't panic
	logger.Info("Test message: %s", "info")
	logger.Warn("Test warning: %s", "warning")
	logger.Error("Test error: %s", "error")
	logger.Debug("Test debug: %d", 1)
}

func TestLogger_Formatting(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "post")

	logger.Info("User %s logged in with ID %d", "john", 123)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "post", entry["service"])
	assert.Equal(t, "User john logged in with ID 123", entry["message"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "").With("request_id", "r-1")

	logger.Warn("slow query")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "r-1", entry["request_id"])
	assert.Equal(t, "warn", entry["level"])
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "")
	logger.SetLevel("error")

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := newLogger(&buf, "")

	router := gin.New()
	router.Use(logger.GinMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	router.ServeHTTP(w, req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/ping", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "user-1", entry["user_id"])
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("nothing %s", "happens")
}
