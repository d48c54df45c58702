package email

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// DetectContentType determines the MIME type of an attachment.
//
// Detection priority:
// 1. If providedType is non-empty, use it directly
// 2. Try to detect from the file extension using mime.TypeByExtension
// 3. Sniff the first 512 bytes of data
// 4. Fall back to "application/octet-stream"
func DetectContentType(providedType, filename string, data []byte) string {
	if providedType != "" {
		return providedType
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	if len(data) > 0 {
		if len(data) > 512 {
			data = data[:512]
		}
		return http.DetectContentType(data)
	}

	return "application/octet-stream"
}
