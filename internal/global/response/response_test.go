package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"capstone-guard/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestErrorWithOriginKeepsChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrDatabase.WithOrigin(cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrDatabase)
	require.NotNil(t, err.StackTrace())
	require.Contains(t, err.Origin, "connection refused")
	// 原始错误不会修改全局错误
	require.Empty(t, ErrDatabase.Origin)
	require.Same(t, ErrDatabase, ErrDatabase.WithOrigin(nil))
}

func TestErrorWithTips(t *testing.T) {
	err := ErrNotFound.WithTips("project not found")
	require.Equal(t, "resource not found: project not found", err.Message)
	require.Equal(t, ErrNotFound.Code, err.Code)
	require.Equal(t, "resource not found", ErrNotFound.WithTips().Message)
}

func TestFailWritesStatusFromCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{Mode: config.ModeRelease})
	t.Cleanup(func() { config.Set(nil) })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Fail(c, ErrForbidden.WithOrigin(errors.New("secret detail")))

	require.Equal(t, http.StatusForbidden, w.Code)
	var body ResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, int32(403), body.Code)
	require.Empty(t, body.Origin)
	require.True(t, c.IsAborted())
}

func TestFailWrapsPlainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Fail(c, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, map[string]int{"n": 1})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Code int32          `json:"code"`
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, CodeSuccess, body.Code)
	require.Equal(t, 1, body.Data["n"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.Use(func(c *gin.Context) {
		defer Recovery(c)
		c.Next()
	})
	r.GET("/panic", func(c *gin.Context) { panic("unexpected") })

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
