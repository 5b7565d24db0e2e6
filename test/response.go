package test

import (
	"testing"

	"capstone-guard/internal/global/response"

	"github.com/stretchr/testify/require"
)

// ErrorEqual 只比较错误码和基础提示，WithTips 追加的内容不影响
func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, expected.Code, resp.Code)
	require.Contains(t, resp.Msg, expected.Message)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, response.CodeSuccess, resp.Code, resp.Msg)
}
