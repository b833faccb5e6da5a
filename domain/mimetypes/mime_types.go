// Package mimetypes lists the content types accepted for file messages.
package mimetypes

import "mime"

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"

	ApplicationPDF MIME = "application/pdf"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWebP MIME = "image/webp"

	AudioMPEG MIME = "audio/mpeg"
	AudioOGG  MIME = "audio/ogg"
	VideoMP4  MIME = "video/mp4"
)

var allowed = []MIME{TextPlain, ApplicationPDF, ImagePNG, ImageJPEG, ImageGIF, ImageWebP, AudioMPEG, AudioOGG, VideoMP4}

// Matches compares a detected content type, parameters ignored, with an expected one.
func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// Allowed returns the accepted type matching detected, or Unknown.
func Allowed(detected string) (MIME, bool) {
	for _, candidate := range allowed {
		if m, ok := Matches(detected, candidate); ok {
			return m, true
		}
	}
	return Unknown, false
}
