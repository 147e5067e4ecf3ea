// Package uploads stores admin image uploads on local disk and hands back the
// public path the storefront serves them under.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/promonitor/storefront/pkg/config"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
)

const (
	unsupportedMessage = "Kun bildefiler er tillatt."
	tooLargeMessage    = "Bildet er for stort."
)

var (
	allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/svg+xml"}
	unsafeNameChars   = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// Storage writes images into Dir and serves them from PublicPrefix.
type Storage struct {
	dir          string
	publicPrefix string
	maxBytes     int64
	now          func() time.Time
}

// NewStorage prepares the upload directory.
func NewStorage(cfg config.UploadsConfig) (*Storage, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if cfg.MaxBytes <= 0 {
		return nil, fmt.Errorf("uploads max bytes must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	prefix := "/" + strings.Trim(cfg.PublicPrefix, "/")
	return &Storage{dir: dir, publicPrefix: prefix, maxBytes: cfg.MaxBytes, now: time.Now}, nil
}

// Dir is the directory served under the public prefix.
func (s *Storage) Dir() string { return s.dir }

// PublicPrefix is the URL path uploads are served under.
func (s *Storage) PublicPrefix() string { return s.publicPrefix }

// SaveFile stores a multipart upload.
func (s *Storage) SaveFile(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxBytes {
		return "", tooLarge(s.maxBytes)
	}
	file, err := header.Open()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read upload")
	}
	defer file.Close()
	return s.Save(ctx, header.Filename, file)
}

// Save validates the content as an allowed image type and writes it as
// "<unix-ms>-<sanitized name>". It returns the public path.
func (s *Storage) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read upload")
	}
	if int64(len(data)) > s.maxBytes {
		return "", tooLarge(s.maxBytes)
	}
	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		return "", pkgerrors.New(pkgerrors.CodeUnsupportedMedia, unsupportedMessage).
			WithDetails(map[string]any{"detected": detected.String(), "allowed": allowedImageTypes})
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), SafeName(originalName))
	file, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload file")
	}
	if _, err := io.Copy(file, bytes.NewReader(data)); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write upload file")
	}
	if err := file.Close(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close upload file")
	}
	return path.Join(s.publicPrefix, name), nil
}

// SafeName keeps ASCII letters, digits, dots and dashes of the base name.
func SafeName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return unsafeNameChars.ReplaceAllString(base, "-")
}

func tooLarge(max int64) error {
	return pkgerrors.New(pkgerrors.CodePayloadTooLarge, tooLargeMessage).
		WithDetails(map[string]any{"max_bytes": max})
}
