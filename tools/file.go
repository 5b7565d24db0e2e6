package tools

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func FileExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileExt 返回小写且不带点的扩展名
func FileExt(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// SetAttachmentHeader 设置下载文件名，兼容中文等非 ASCII 文件名
func SetAttachmentHeader(c *gin.Context, displayName, contentType string) {
	escaped := url.QueryEscape(displayName)
	c.Header("Content-Type", contentType)
	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped),
	)
}

func SendStoredFile(c *gin.Context, path, displayName, contentType string) {
	SetAttachmentHeader(c, displayName, contentType)
	c.File(path)
}
