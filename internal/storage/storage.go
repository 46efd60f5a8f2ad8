package storage

import (
	"context"
	"errors"
)

var (
	ErrEmptyFile   = errors.New("file is empty")
	ErrNotAnImage  = errors.New("file is not an image")
	ErrForeignFile = errors.New("file does not belong to this storage")
)

// FileStorage keeps uploaded user files such as profile images.
type FileStorage interface {
	// UploadImage stores data under folder and returns its public URL.
	UploadImage(ctx context.Context, folder string, data []byte, filename string) (string, error)

	DeleteFile(ctx context.Context, fileURL string) error
}
