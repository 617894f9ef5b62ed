package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// cloudinaryBackend uploads car photos to Cloudinary.
type cloudinaryBackend struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryBackend initializes the remote backend from credentials.
func NewCloudinaryBackend(cloudName, apiKey, apiSecret string) (*cloudinaryBackend, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &cloudinaryBackend{cld: cld}, nil
}

func (b *cloudinaryBackend) save(ctx context.Context, localPath, ownerKey string, index int) (string, error) {
	publicID := fmt.Sprintf("%s/photo_%s_%d", ownerKey, time.Now().Format("20060102_150405"), index)

	result, err := b.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		PublicID:     publicID,
		Overwrite:    api.Bool(false),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no URL for %s", publicID)
	}
	return result.SecureURL, nil
}

func (b *cloudinaryBackend) delete(ctx context.Context, url string) bool {
	publicID := publicIDFromURL(url)
	if publicID == "" {
		return false
	}
	result, err := b.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return false
	}
	return result.Result == "ok"
}
