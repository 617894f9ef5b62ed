package storage

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

const (
	maxWidth  = 1920
	maxHeight = 1080
)

// localBackend writes web-optimized JPEGs to the local filesystem. It exists
// for development and as the fallback when Cloudinary is unreachable.
type localBackend struct {
	dir     string
	baseURL string
}

// NewLocalBackend creates the upload directory if needed.
func NewLocalBackend(dir, baseURL string) (*localBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &localBackend{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (b *localBackend) save(ctx context.Context, localPath, ownerKey string, index int) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img := downscale(src)

	name := fmt.Sprintf("%s_%s_%d.jpg",
		strings.ReplaceAll(ownerKey, "/", "_"),
		time.Now().Format("20060102_150405"),
		index)
	target := filepath.Join(b.dir, name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return b.baseURL + localURLPrefix + name, nil
}

// downscale shrinks an image to fit 1920x1080, keeping aspect ratio.
func downscale(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth && h <= maxHeight {
		return src
	}
	ratio := float64(maxWidth) / float64(w)
	if r := float64(maxHeight) / float64(h); r < ratio {
		ratio = r
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*ratio), int(float64(h)*ratio)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func (b *localBackend) delete(ctx context.Context, url string) bool {
	idx := strings.Index(url, localURLPrefix)
	if idx < 0 {
		return false
	}
	name := url[idx+len(localURLPrefix):]
	if name == "" || strings.Contains(name, "..") {
		return false
	}
	if err := os.Remove(filepath.Join(b.dir, filepath.Base(name))); err != nil {
		return false
	}
	return true
}
