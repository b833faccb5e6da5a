package services

import (
	"chat-courier/domain/chat"
	"chat-courier/errors"
	"chat-courier/mocks"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func Test_UploadFile_Detects_Mime_And_Stores(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockIObjectStore(ctrl)
	svc := NewUploadService(logs.GetLoggerFromLevel(slog.LevelError), objects, 1024)

	objects.EXPECT().
		Put(gomock.Any(), ".png", "image/png", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, r io.Reader) (string, error) {
			data, err := io.ReadAll(r)
			req.NoError(err)
			req.Equal(pngHeader, data)
			return "http://localhost:8081/files/abc.png", nil
		})

	uploaded, err := svc.UploadFile(context.Background(), chat.UploadFileCommand{Owner: "alice", FileName: "cat.png", Data: pngHeader})

	req.NoError(err)
	req.Equal("http://localhost:8081/files/abc.png", uploaded.URL)
	req.Equal("image/png", uploaded.MimeType)
}

func Test_UploadFile_Rejections(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	svc := NewUploadService(logs.GetLoggerFromLevel(slog.LevelError), mocks.NewMockIObjectStore(ctrl), 8)

	_, err := svc.UploadFile(context.Background(), chat.UploadFileCommand{Owner: "alice", FileName: "empty.txt"})
	req.ErrorIs(err, errors.ErrValidation)

	_, err = svc.UploadFile(context.Background(), chat.UploadFileCommand{Owner: "alice", FileName: "cat.png", Data: pngHeader})
	req.ErrorIs(err, errors.ErrFileTooLarge)
}

func Test_UploadFile_Refuses_Unsupported_Types(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	svc := NewUploadService(logs.GetLoggerFromLevel(slog.LevelError), mocks.NewMockIObjectStore(ctrl), 1024)

	page := []byte("<!DOCTYPE html><html><body>hi</body></html>")
	_, err := svc.UploadFile(context.Background(), chat.UploadFileCommand{Owner: "alice", FileName: "x.html", Data: page})
	req.ErrorIs(err, errors.ErrValidation)
}

func Test_UploadFile_Names_Object_After_Detected_Content(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockIObjectStore(ctrl)
	svc := NewUploadService(logs.GetLoggerFromLevel(slog.LevelError), objects, 1024)

	// Given plain text uploaded under an html file name
	note := []byte("hello there <script>alert(document.cookie)</script>")

	// Then the store receives the extension of the sniffed type, not the client one
	objects.EXPECT().
		Put(gomock.Any(), ".txt", "text/plain; charset=utf-8", gomock.Any()).
		Return("http://localhost:8081/files/abc.txt", nil)

	uploaded, err := svc.UploadFile(context.Background(), chat.UploadFileCommand{Owner: "alice", FileName: "note.html", Data: note})

	req.NoError(err)
	req.Equal("http://localhost:8081/files/abc.txt", uploaded.URL)
	req.Equal("text/plain; charset=utf-8", uploaded.MimeType)
}
