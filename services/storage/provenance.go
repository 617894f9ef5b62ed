package storage

import "strings"

const (
	cloudinaryHost = "res.cloudinary.com"
	localURLPrefix = "/static/uploads/cars/"
)

// IsCloudinaryURL reports whether a photo URL came from the remote store.
func IsCloudinaryURL(url string) bool {
	return strings.Contains(url, cloudinaryHost)
}

// IsLocalURL reports whether a photo URL points at the local fallback store.
func IsLocalURL(url string) bool {
	return strings.Contains(url, localURLPrefix)
}

// BackendOf classifies a URL by provenance; unknown shapes map to BackendLocal
// only when they carry the local prefix, otherwise the empty Backend.
func BackendOf(url string) Backend {
	switch {
	case IsCloudinaryURL(url):
		return BackendCloudinary
	case IsLocalURL(url):
		return BackendLocal
	}
	return ""
}

// publicIDFromURL derives the Cloudinary public ID from a delivery URL:
// everything after "upload/<version>/", extension stripped.
// Example: .../image/upload/v1766578214/avtorent/cars/k1/photo_2.jpg
//
//	-> avtorent/cars/k1/photo_2
func publicIDFromURL(url string) string {
	parts := strings.Split(url, "/")
	uploadIdx := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx < 0 || uploadIdx+2 >= len(parts) {
		return ""
	}
	rest := parts[uploadIdx+1:]
	// Skip the version segment when present.
	if len(rest[0]) > 1 && rest[0][0] == 'v' {
		allDigits := true
		for _, r := range rest[0][1:] {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			rest = rest[1:]
		}
	}
	publicID := strings.Join(rest, "/")
	if dot := strings.LastIndex(publicID, "."); dot > 0 {
		publicID = publicID[:dot]
	}
	return publicID
}
