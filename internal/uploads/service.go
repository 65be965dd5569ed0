// Package uploads stores product and category images on local disk and
// hands back the public URL path they are served from.
package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nuthub-il/nuthub-backend/pkg/config"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
)

// AllowedExtensions lists the image extensions accepted for upload and
// served back from the uploads dir.
var AllowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Result is returned after a successful upload.
type Result struct {
	ImageURL string `json:"imageUrl"`
}

// Service stores uploaded images.
type Service interface {
	SaveImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*Result, error)
	MaxBytes() int64
}

type service struct {
	dir      string
	maxBytes int64
	logg     *logger.Logger
}

// NewService wires the upload service and makes sure the target
// directory exists.
func NewService(cfg config.UploadsConfig, logg *logger.Logger) (Service, error) {
	if cfg.Dir == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "uploads service requires a directory")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "uploads service requires a logger")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create uploads directory")
	}

	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 2
	}
	return &service{
		dir:      cfg.Dir,
		maxBytes: int64(maxMB) << 20,
		logg:     logg,
	}, nil
}

func (s *service) MaxBytes() int64 {
	return s.maxBytes
}

func (s *service) SaveImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*Result, error) {
	if file == nil || header == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image file is required")
	}
	if header.Size > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the upload size limit").
			WithDetails(map[string]string{"maxBytes": fmt.Sprintf("%d", s.maxBytes)})
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !AllowedExtensions[ext] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]string{"extension": ext})
	}

	name := uuid.NewString() + ext
	dest := filepath.Join(s.dir, name)

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create upload file")
	}
	defer out.Close()

	// The HTTP layer already caps the request body, but the copy is
	// limited again so a lying Content-Length cannot overshoot.
	written, err := io.Copy(out, io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		os.Remove(dest)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write upload file")
	}
	if written > s.maxBytes {
		os.Remove(dest)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the upload size limit")
	}

	s.logg.Info(s.logg.WithField(ctx, "file", name), "image stored")
	return &Result{ImageURL: "/uploads/" + name}, nil
}
