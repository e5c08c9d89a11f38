package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"go.uber.org/zap"
)

// stagedUpload is a multipart file copied to local disk until the media host accepts it
type stagedUpload struct {
	file *os.File
	log  *zap.Logger
}

// stage copies fh into a temp file under dir and returns an UploadFile reading from it
func stage(fh *multipart.FileHeader, dir string, log *zap.Logger) (service.UploadFile, *stagedUpload, error) {
	src, err := fh.Open()
	if err != nil {
		return service.UploadFile{}, nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return service.UploadFile{}, nil, fmt.Errorf("create temp file: %w", err)
	}
	staged := &stagedUpload{file: tmp, log: log}

	size, err := io.Copy(tmp, src)
	if err == nil {
		_, err = tmp.Seek(0, io.SeekStart)
	}
	if err != nil {
		staged.Remove()
		return service.UploadFile{}, nil, fmt.Errorf("stage upload %s: %w", fh.Filename, err)
	}

	return service.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        size,
		Body:        tmp,
	}, staged, nil
}

// Remove closes and deletes the temp file
func (s *stagedUpload) Remove() {
	if s == nil || s.file == nil {
		return
	}
	name := s.file.Name()
	_ = s.file.Close()
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		s.log.Warn("Failed to remove staged upload", zap.String("path", name), zap.Error(err))
	}
	s.file = nil
}
