package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"robotapp-backend/internal/util"

	"go.uber.org/zap"
)

// LocalStorage writes files below basePath and serves them from urlPrefix
type LocalStorage struct {
	basePath  string
	urlPrefix string
}

func NewLocalStorage(basePath, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalStorage) Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	clean := path.Clean("/" + name)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, body); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	util.Logger.Info("file saved", zap.String("fullPath", fullPath), zap.Int64("size", size))
	return s.urlPrefix + clean, nil
}
