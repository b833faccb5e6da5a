package services

import (
	"bytes"
	"chat-courier/contract"
	"chat-courier/domain/mimetypes"
	"chat-courier/domain/chat"
	"chat-courier/errors"
	"context"
	"fmt"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
)

type IUploadService interface {
	UploadFile(ctx context.Context, cmd chat.UploadFileCommand) (UploadedFile, error)
}

type UploadedFile struct {
	URL      string
	MimeType string
}

// UploadService stores files whose URL is then sent as a file message.
type UploadService struct {
	log      *slog.Logger
	objects  contract.IObjectStore
	maxBytes int
}

func NewUploadService(log *slog.Logger, objects contract.IObjectStore, maxBytes int) *UploadService {
	return &UploadService{log: log, objects: objects, maxBytes: maxBytes}
}

func (s *UploadService) UploadFile(ctx context.Context, cmd chat.UploadFileCommand) (UploadedFile, error) {
	if err := validateCommand(cmd); err != nil {
		return UploadedFile{}, err
	}
	if len(cmd.Data) == 0 {
		return UploadedFile{}, fmt.Errorf("%w: file is empty", errors.ErrValidation)
	}
	if s.maxBytes > 0 && len(cmd.Data) > s.maxBytes {
		return UploadedFile{}, fmt.Errorf("%w: %d bytes", errors.ErrFileTooLarge, len(cmd.Data))
	}

	mime := mimetype.Detect(cmd.Data)
	if _, ok := mimetypes.Allowed(mime.String()); !ok {
		return UploadedFile{}, fmt.Errorf("%w: unsupported file type %s", errors.ErrValidation, mime.String())
	}
	url, err := s.objects.Put(ctx, mime.Extension(), mime.String(), bytes.NewReader(cmd.Data))
	if err != nil {
		return UploadedFile{}, err
	}
	s.log.Info("File uploaded", "owner", cmd.Owner, "name", cmd.FileName, "mime", mime.String(), "size", len(cmd.Data))
	return UploadedFile{URL: url, MimeType: mime.String()}, nil
}
