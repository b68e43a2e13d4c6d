// Package upload stores analyst evidence images on local disk.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNoFiles = errors.New("please select at least one file to upload")

// AllowedExtensions are matched case-insensitively.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png"}

// FileResult is the outcome for one uploaded file.
type FileResult struct {
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name,omitempty"`
	Size         int64  `json:"size"`
	Error        string `json:"error,omitempty"`
}

// Report lists what was stored and what was rejected.
type Report struct {
	Uploaded []FileResult `json:"uploaded"`
	Failed   []FileResult `json:"failed"`
}

type Service struct {
	dir      string
	maxBytes int64
	log      *logrus.Logger
}

func NewService(dir string, maxBytes int64, log *logrus.Logger) *Service {
	return &Service{dir: dir, maxBytes: maxBytes, log: log}
}

// Save validates and stores each file under a random name. A failing file
// does not stop the others.
func (s *Service) Save(ctx context.Context, files []*multipart.FileHeader) (*Report, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	report := &Report{Uploaded: []FileResult{}, Failed: []FileResult{}}
	for _, fh := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := FileResult{OriginalName: fh.Filename, Size: fh.Size}
		stored, err := s.saveOne(fh)
		if err != nil {
			result.Error = err.Error()
			report.Failed = append(report.Failed, result)
			s.log.WithFields(logrus.Fields{"file": fh.Filename, "error": err}).Info("upload rejected")
			continue
		}
		result.StoredName = stored
		report.Uploaded = append(report.Uploaded, result)
	}

	s.log.WithFields(logrus.Fields{
		"uploaded": len(report.Uploaded),
		"failed":   len(report.Failed),
	}).Info("upload processed")
	return report, nil
}

func (s *Service) saveOne(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", fmt.Errorf("file size exceeds %s limit", formatSize(s.maxBytes))
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowed(ext) {
		return "", fmt.Errorf("file type not allowed, allowed types: %s", strings.Join(AllowedExtensions, ", "))
	}
	if fh.Size == 0 {
		return "", errors.New("file is empty")
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return name, nil
}

func allowed(ext string) bool {
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

func formatSize(n int64) string {
	const mb = 1024 * 1024
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
