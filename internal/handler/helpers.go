package handler

import (
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unibridge/bridge-go-api/internal/middleware"
)

var csvContentTypes = []string{"text/csv", "application/vnd.ms-excel"}

var jsonContentTypes = []string{"application/json", "text/json", "application/octet-stream"}

func isCSVUpload(file *multipart.FileHeader) bool {
	return matchesContentType(file, csvContentTypes)
}

// isJSONUpload accepts declared JSON types; octet-stream uploads are sniffed
// because browsers and curl often fall back to it for .json files.
func isJSONUpload(file *multipart.FileHeader) bool {
	if !matchesContentType(file, jsonContentTypes) {
		return false
	}

	if declaredContentType(file) != "application/octet-stream" {
		return true
	}

	reader, err := file.Open()
	if err != nil {
		return false
	}
	defer reader.Close()

	detected, err := mimetype.DetectReader(reader)
	if err != nil {
		return false
	}

	for mime := detected; mime != nil; mime = mime.Parent() {
		if mime.Is("application/json") || mime.Is("text/plain") {
			return true
		}
	}

	return false
}

func matchesContentType(file *multipart.FileHeader, allowed []string) bool {
	declared := declaredContentType(file)
	for _, contentType := range allowed {
		if declared == contentType {
			return true
		}
	}
	return false
}

func declaredContentType(file *multipart.FileHeader) string {
	declared := file.Header.Get(fiber.HeaderContentType)
	if idx := strings.IndexByte(declared, ';'); idx >= 0 {
		declared = declared[:idx]
	}
	return strings.ToLower(strings.TrimSpace(declared))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) zerolog.Logger {
	if c == nil {
		return base
	}
	if correlation := middleware.GetCorrelationID(c); correlation != "" {
		return base.With().Str("correlation_id", correlation).Logger()
	}
	return base
}
