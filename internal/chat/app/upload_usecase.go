package app

import (
	"context"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"chat_backend_service/internal/chat/domain"
	errprocess "chat_backend_service/pkg/err"
)

// MaxUploadSize attachment size ceiling in bytes
const MaxUploadSize = 10 << 20

// ObjectStore attachment backing store
type ObjectStore interface {
	UploadStream(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, objectName string) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, objectName string) error
}

// UploadUseCase definition file upload service
type UploadUseCase interface {
	Upload(ctx context.Context, originalName string, size int64, contentType string, r io.Reader) (*domain.FileMetadata, error)
	Download(ctx context.Context, fileName string) (io.ReadCloser, error)
}

type uploadUseCase struct {
	store ObjectStore
}

// NewUploadUseCase create new upload use case
func NewUploadUseCase(store ObjectStore) UploadUseCase {
	return &uploadUseCase{store: store}
}

// Upload store the stream under a fresh random object name, keeping the
// original extension. The returned metadata is what a message carries.
func (uc *uploadUseCase) Upload(ctx context.Context, originalName string, size int64, contentType string, r io.Reader) (*domain.FileMetadata, error) {
	if size <= 0 {
		return nil, errprocess.NewInvalidArgument("empty upload")
	}
	if size > MaxUploadSize {
		return nil, errprocess.NewInvalidArgument("file exceeds %d byte limit", MaxUploadSize)
	}

	objectName := uuid.New().String() + filepath.Ext(originalName)
	if err := uc.store.UploadStream(ctx, objectName, r, size, contentType); err != nil {
		return nil, err
	}

	return &domain.FileMetadata{
		OriginalName: originalName,
		FileName:     objectName,
		FileSize:     size,
		MimeType:     contentType,
		URL:          "/uploads/" + url.PathEscape(objectName),
	}, nil
}

func (uc *uploadUseCase) Download(ctx context.Context, fileName string) (io.ReadCloser, error) {
	obj, err := uc.store.GetObject(ctx, fileName)
	if err != nil {
		return nil, errprocess.NewNotFound("file not found")
	}
	return obj, nil
}

// MessageTypeForMime map a MIME type onto the message type enum
func MessageTypeForMime(contentType string) domain.MessageType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.MessageTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return domain.MessageTypeVideo
	case strings.HasPrefix(contentType, "audio/"):
		return domain.MessageTypeAudio
	default:
		return domain.MessageTypeFile
	}
}
