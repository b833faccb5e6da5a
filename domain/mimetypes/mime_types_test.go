package mimetypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		want     MIME
		ok       bool
	}{
		{"Plain text with charset", "text/plain; charset=utf-8", TextPlain, true},
		{"PDF", "application/pdf", ApplicationPDF, true},
		{"PNG", "image/png", ImagePNG, true},
		{"MP4", "video/mp4", VideoMP4, true},
		{"HTML is refused", "text/html; charset=utf-8", Unknown, false},
		{"Executables are refused", "application/x-elf", Unknown, false},
		{"Unknown binary", "application/octet-stream", Unknown, false},
		{"Invalid MIME", "not a mime", Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Allowed(tt.detected)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
