package logger

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"testing"

	"capstone-guard/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestBuildTextHandlerRespectsLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	l := slog.New(build(&cfg, &buf))
	l.Info("hidden")
	l.Warn("shown", "project_id", 7)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown")
	require.Contains(t, out, "project_id=7")
}

func TestFanout(t *testing.T) {
	var a, b bytes.Buffer
	h := fanout{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	l := slog.New(h).With("module", "Test")
	l.Info("only a")
	l.Error("both")

	require.Contains(t, a.String(), "only a")
	require.Contains(t, a.String(), "both")
	require.NotContains(t, b.String(), "only a")
	require.Contains(t, b.String(), "module=Test")
}

func TestWithRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.Header.Set("X-Real-IP", "10.0.0.8")

	var buf bytes.Buffer
	l := WithRequest(slog.New(slog.NewTextHandler(&buf, nil)), c)
	l.Info("hello")
	require.Contains(t, buf.String(), "x_real_ip=10.0.0.8")
	require.Contains(t, buf.String(), "client_ip=")
}
