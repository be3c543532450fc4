package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("only jpg, jpeg, png, gif and webp images are allowed")
	ErrTooLarge        = errors.New("file exceeds upload limit")
)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// ObjectStore saves a single file and returns a publicly resolvable URL.
type ObjectStore interface {
	Put(ctx context.Context, bucket, filename string, r io.Reader) (string, error)
}

// Local writes files under Root/<bucket>/ and serves them at BaseURL/<bucket>/.
type Local struct {
	Root     string
	BaseURL  string
	MaxBytes int64
}

func NewLocal(root, baseURL string, maxBytes int64) *Local {
	return &Local{Root: root, BaseURL: strings.TrimRight(baseURL, "/"), MaxBytes: maxBytes}
}

func AllowedImage(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

func (l *Local) Put(ctx context.Context, bucket, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !AllowedImage(filename) {
		return "", ErrUnsupportedType
	}

	dir := filepath.Join(l.Root, filepath.Base(bucket))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	src := r
	if l.MaxBytes > 0 {
		src = io.LimitReader(r, l.MaxBytes+1)
	}
	n, err := io.Copy(f, src)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && l.MaxBytes > 0 && n > l.MaxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", l.BaseURL, filepath.Base(bucket), name), nil
}
