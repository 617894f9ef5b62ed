package utils

import (
	"log"

	"avtorent/config"
	"avtorent/services/storage"
)

var photoStore *storage.DualStore

// InitPhotoStore assembles the photo store from configuration. Cloudinary is
// attached only when credentials are present; the local backend always exists
// so uploads keep working during remote outages.
func InitPhotoStore() {
	local, err := storage.NewLocalBackend(config.AppConfig.UploadDir, config.AppConfig.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize local photo backend: %v", err)
	}

	if !config.CloudinaryEnabled() {
		GetLogger().Warn("cloudinary credentials missing, photo store running local-only")
		photoStore = storage.NewDualStore(nil, local, GetLogger())
		return
	}

	remote, err := storage.NewCloudinaryBackend(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary: %v", err)
	}
	photoStore = storage.NewDualStore(remote, local, GetLogger())
}

// GetPhotoStore returns the initialized photo store.
func GetPhotoStore() *storage.DualStore {
	if photoStore == nil {
		log.Fatal("Photo store not initialized. Call InitPhotoStore first.")
	}
	return photoStore
}
