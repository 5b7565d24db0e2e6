package response

import (
	"errors"
	"net/http"
	"runtime/debug"

	"capstone-guard/config"
	"capstone-guard/internal/global/logger"
	"capstone-guard/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

// ResponseBody 统一响应格式
type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Data   any    `json:"data,omitempty"`
	Origin string `json:"origin,omitempty"`
}

// Success 返回成功响应，data 可省略
func Success(c *gin.Context, data ...any) {
	body := ResponseBody{Code: CodeSuccess, Msg: "success"}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.Set(ResponseContextKey, body)
	c.JSON(http.StatusOK, body)
}

// Fail 返回失败响应，HTTP 状态码取自错误码；非 *Error 的错误按服务器错误处理
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrServer.WithOrigin(err)
	}

	body := ResponseBody{Code: e.Code, Msg: e.Message}
	// Origin 只在 debug 模式下返回给前端
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}

	c.Set(ErrorContextKey, e)
	c.Set(ResponseContextKey, body)
	sentry.CaptureException(c, e)
	c.AbortWithStatusJSON(httpStatus(e.Code), body)
}

func httpStatus(code int32) int {
	if code < 400 || code > 599 {
		return http.StatusInternalServerError
	}
	return int(code)
}

// Recovery 捕获 panic 并返回服务器错误，需要以 defer 方式调用
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		logger.New("Recovery").Error("服务器 panic", "panic", r, "path", c.Request.URL.Path, "stack", string(debug.Stack()))
		Fail(c, ErrServer.WithTips("internal error"))
	}
}
