package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type Option func(c *gin.Context)

// AsUser 模拟已通过认证的请求
func AsUser(p jwt.Payload) Option {
	return func(c *gin.Context) {
		c.Set(jwt.PayloadKey, &jwt.Claims{Payload: p})
	}
}

func Param(key, value string) Option {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: key, Value: value})
	}
}

func Query(raw string) Option {
	return func(c *gin.Context) {
		c.Request.URL.RawQuery = raw
	}
}

// DoRequest 直接调用 handler，body 为 nil 时不带请求体，string 按原样发送
func DoRequest(t *testing.T, handler gin.HandlerFunc, method string, body any, opts ...Option) (resp response.ResponseBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	c.Request = httptest.NewRequest(method, "/test", reader)
	c.Request.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(c)
	}

	handler(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}
