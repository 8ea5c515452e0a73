package extract

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// imageMIMETypes maps accepted image extensions to MIME types.
var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ImageMIMEType returns the MIME type for an image extension, or "" when
// the extension is not an accepted image type.
func ImageMIMEType(ext string) string {
	return imageMIMETypes[strings.ToLower(ext)]
}

// EncodeImage reads the image at path and returns its bytes base64-encoded.
// Unlike document extraction there is no degraded mode: an unreadable image
// is a hard failure the caller must abort on.
func EncodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
