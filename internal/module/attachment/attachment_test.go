package attachment

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"capstone-guard/config"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/test"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func storageConfig() config.Storage {
	return config.Storage{MaxSize: 16 << 20, AllowedExt: []string{"pdf", "doc", "docx"}}
}

func TestCheckFile(t *testing.T) {
	cfg := storageConfig()

	ext, e := checkFile(cfg, "Final Report.PDF", 1024)
	require.Nil(t, e)
	require.Equal(t, "pdf", ext)

	_, e = checkFile(cfg, "malware.exe", 1024)
	require.NotNil(t, e)
	require.Equal(t, response.ErrInvalidRequest.Code, e.Code)

	_, e = checkFile(cfg, "README", 1024)
	require.NotNil(t, e)

	_, e = checkFile(cfg, "empty.docx", 0)
	require.NotNil(t, e)

	_, e = checkFile(cfg, "huge.pdf", 16<<20+1)
	require.NotNil(t, e)
	require.Equal(t, response.ErrFileTooLarge.Code, e.Code)
}

func TestContentType(t *testing.T) {
	require.Equal(t, "application/pdf", contentType("pdf", "text/plain"))
	require.Equal(t, "application/msword", contentType("doc", ""))
	require.Equal(t, "application/x-custom", contentType("zzz", "application/x-custom"))
	require.Equal(t, "application/octet-stream", contentType("zzz", ""))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "report.pdf", displayName("../../etc/report.pdf"))
	require.Equal(t, "report.pdf", displayName(`C:\Users\ada\report.pdf`))
	long := displayName(strings.Repeat("a", 300) + ".docx")
	require.Len(t, long, maxFilenameLength)
	require.True(t, strings.HasSuffix(long, ".docx"))

	// 按字符截断，不切开多字节字符
	cjk := displayName(strings.Repeat("报告", 200) + ".pdf")
	require.True(t, utf8.ValidString(cjk))
	require.Equal(t, maxFilenameLength, utf8.RuneCountInString(cjk))
	require.True(t, strings.HasSuffix(cjk, ".pdf"))
	require.Equal(t, "短文件名.pdf", displayName("短文件名.pdf"))

	weird := displayName("a." + strings.Repeat("x", 300))
	require.Equal(t, maxFilenameLength, utf8.RuneCountInString(weird))
}

func TestUploadRejectsBadFile(t *testing.T) {
	selfInit()
	gin.SetMode(gin.TestMode)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "script.sh")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("echo hi"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/attachment/project/1", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Set(jwt.PayloadKey, &jwt.Claims{Payload: jwt.Payload{UserID: 1, Role: model.RoleStudent}})

	UploadAttachment(c)

	var resp response.ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
	require.Contains(t, resp.Msg, "file type not allowed")
}

func TestUploadRequiresFile(t *testing.T) {
	selfInit()
	user := test.AsUser(jwt.Payload{UserID: 1, Role: model.RoleStudent})
	resp := test.DoRequest(t, UploadAttachment, http.MethodPost, nil, user, test.Param("id", "1"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
	require.Contains(t, resp.Msg, "file is required")
}
