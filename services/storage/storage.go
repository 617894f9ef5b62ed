package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DualStore prefers Cloudinary and degrades to the local backend. When built
// without credentials (development) the local backend is the only one.
type DualStore struct {
	remote *cloudinaryBackend // nil when not configured
	local  *localBackend
	logger *zap.Logger
}

// NewDualStore assembles the photo store. remote may be nil.
func NewDualStore(remote *cloudinaryBackend, local *localBackend, logger *zap.Logger) *DualStore {
	return &DualStore{remote: remote, local: local, logger: logger}
}

// Primary reports the preferred backend selected at process start.
func (s *DualStore) Primary() Backend {
	if s.remote != nil {
		return BackendCloudinary
	}
	return BackendLocal
}

// Save uploads to the preferred backend and falls back to the local store on
// failure, flagging the result as degraded. It errors only when every backend
// failed.
func (s *DualStore) Save(ctx context.Context, localPath, ownerKey string, index int) (SaveResult, error) {
	if s.remote != nil {
		url, err := s.remote.save(ctx, localPath, ownerKey, index)
		if err == nil {
			return SaveResult{URL: url, Backend: BackendCloudinary}, nil
		}
		s.logger.Warn("cloudinary upload failed, falling back to local store",
			zap.String("owner", ownerKey), zap.Error(err))

		url, lerr := s.local.save(ctx, localPath, ownerKey, index)
		if lerr != nil {
			return SaveResult{}, fmt.Errorf("all photo backends failed: %w", lerr)
		}
		return SaveResult{URL: url, Backend: BackendLocal, Degraded: true}, nil
	}

	url, err := s.local.save(ctx, localPath, ownerKey, index)
	if err != nil {
		return SaveResult{}, fmt.Errorf("local photo store failed: %w", err)
	}
	return SaveResult{URL: url, Backend: BackendLocal}, nil
}

// Delete routes by provenance: cloudinary destroy for remote-shaped URLs,
// file removal for local ones.
func (s *DualStore) Delete(ctx context.Context, url string) bool {
	switch BackendOf(url) {
	case BackendCloudinary:
		if s.remote == nil {
			return false
		}
		return s.remote.delete(ctx, url)
	case BackendLocal:
		return s.local.delete(ctx, url)
	}
	return false
}
