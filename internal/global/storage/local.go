package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type Local struct {
	home string
}

func NewLocal(home string) *Local {
	return &Local{home: home}
}

func (l *Local) Driver() string {
	return DriverLocal
}

func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if err := os.MkdirAll(l.home, os.ModePerm); err != nil {
		return "", err
	}
	path := filepath.Join(l.home, filepath.Base(key))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	return path, dst.Close()
}

// Delete 文件已不存在时视为成功
func (l *Local) Delete(_ context.Context, path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
