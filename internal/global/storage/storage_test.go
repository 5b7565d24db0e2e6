package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"capstone-guard/config"

	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	k := NewKey(".PDF")
	require.True(t, strings.HasSuffix(k, ".pdf"))
	require.Len(t, k, 36+4)
	require.NotEqual(t, k, NewKey("pdf"))
	require.Len(t, NewKey(""), 36)
}

func TestLocalPutDelete(t *testing.T) {
	home := filepath.Join(t.TempDir(), "upload")
	s := NewLocal(home)
	ctx := context.Background()

	path, err := s.Put(ctx, "../escape.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "escape.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(ctx, path))
	require.NoError(t, s.Delete(ctx, path))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	s, err := New(context.Background(), &cfg)
	require.NoError(t, err)
	require.Equal(t, DriverLocal, s.Driver())
	_, ok := s.(Presigner)
	require.False(t, ok)

	cfg.Storage.Driver = "ftp"
	_, err = New(context.Background(), &cfg)
	require.Error(t, err)

	cfg.Storage.Driver = DriverS3
	_, err = New(context.Background(), &cfg)
	require.Error(t, err)
}

func TestS3ObjectKeyAndPresign(t *testing.T) {
	s, err := NewS3(context.Background(), config.S3{
		Endpoint:        "http://127.0.0.1:9000",
		Bucket:          "capstone",
		Region:          "us-east-1",
		AccessKey:       "ak",
		SecretAccessKey: "sk",
		Prefix:          "/attachments/",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	require.Equal(t, DriverS3, s.Driver())
	require.Equal(t, "attachments/a.pdf", s.objectKey("a.pdf"))

	url, err := s.PresignGet(context.Background(), "attachments/a.pdf", "Final Report.pdf")
	require.NoError(t, err)
	require.Contains(t, url, "http://127.0.0.1:9000/capstone/attachments/a.pdf")
	require.Contains(t, url, "X-Amz-Signature")
}
