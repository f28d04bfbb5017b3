package profile

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	PicturePrefix = "profile-picture"

	MaxPictureBytes int64 = 5 << 20
)

// allowedPictureTypes maps accepted extensions to their MIME type.
var allowedPictureTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// PictureMIMEType returns the MIME type for an upload's file extension, if allowed.
func PictureMIMEType(originalName string) (string, bool) {
	mime, ok := allowedPictureTypes[strings.ToLower(filepath.Ext(originalName))]
	return mime, ok
}

// IsAllowedPictureMIME reports whether a sniffed content type is on the allow-list.
func IsAllowedPictureMIME(mime string) bool {
	for _, allowed := range allowedPictureTypes {
		if allowed == mime {
			return true
		}
	}
	return false
}

// PictureFilename builds the stored name: prefix, upload time, original extension.
func PictureFilename(originalName string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s-%d%s", PicturePrefix, at.UnixMilli(), ext)
}

// IsPictureFile reports whether a stored filename belongs to the profile picture.
func IsPictureFile(name string) bool {
	return strings.HasPrefix(name, PicturePrefix)
}

func (p *Profile) SetPicture(filename string) {
	p.ProfilePicture = &filename
}

func (p *Profile) ClearPicture() {
	p.ProfilePicture = nil
}
