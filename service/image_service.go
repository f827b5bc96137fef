package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"vetrina-catalogo/models"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	qualityFull   = 85
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
	maxSizeFull   = 1600

	// DriveRefPrefix marks image references hosted on Google Drive
	DriveRefPrefix = "drive:"

	maxSourceImageBytes = 20 << 20
	fetchTimeout        = 30 * time.Second
)

// ImageServiceInterface defines the contract for the image proxy
type ImageServiceInterface interface {
	Get(ctx context.Context, ref, size string) ([]byte, error)
}

// ImageService resolves image references, resizes them and keeps a disk cache
type ImageService struct {
	localDir string
	cacheDir string
	drive    DriveServiceInterface
	client   *http.Client
	logger   *zap.Logger
	flight   singleflight.Group
}

// NewImageService creates a new ImageService, drive may be nil when no credentials are configured
func NewImageService(localDir, cacheDir string, drive DriveServiceInterface, client *http.Client, logger *zap.Logger) *ImageService {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ImageService{
		localDir: localDir,
		cacheDir: cacheDir,
		drive:    drive,
		client:   client,
		logger:   logger,
	}
}

// Ensure ImageService implements ImageServiceInterface and ImageWarmerInterface
var (
	_ ImageServiceInterface = (*ImageService)(nil)
	_ ImageWarmerInterface  = (*ImageService)(nil)
)

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (s *ImageService) EnsureCacheDir() error {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// CachePath returns the cache file path for a given reference and size
func (s *ImageService) CachePath(ref, size string) string {
	sum := sha1.Sum([]byte(ref))
	return filepath.Join(s.cacheDir, fmt.Sprintf("%s_%s.jpg", hex.EncodeToString(sum[:]), size))
}

// Get returns the optimized JPEG of ref at the given size, from cache when possible.
// Concurrent requests for the same image share one fetch.
func (s *ImageService) Get(ctx context.Context, ref, size string) ([]byte, error) {
	cachePath := s.CachePath(ref, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	ch := s.flight.DoChan(cachePath, func() (interface{}, error) {
		// shared by every waiter on this key, so no single caller may cancel it
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		raw, err := s.fetch(fetchCtx, ref)
		if err != nil {
			return nil, err
		}
		optimized, err := s.optimize(raw, size)
		if err != nil {
			return nil, err
		}
		if err := s.saveToCache(cachePath, optimized); err != nil {
			s.logger.Warn("⚠️  Failed to cache image", zap.String("ref", ref), zap.Error(err))
		}
		return optimized, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Warm fetches ref in the background so a later Get hits the cache.
// Fire and forget: failures are only logged.
func (s *ImageService) Warm(ref, size string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if _, err := s.Get(ctx, ref, size); err != nil {
			s.logger.Debug("Image warm failed", zap.String("ref", ref), zap.Error(err))
		}
	}()
}

// fetch reads the original bytes of ref from Drive, HTTP or the local image directory
func (s *ImageService) fetch(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, DriveRefPrefix):
		if s.drive == nil {
			return nil, fmt.Errorf("%w: drive is not configured for %s", models.ErrImageUnavailable, ref)
		}
		data, err := s.drive.DownloadImage(ctx, strings.TrimPrefix(ref, DriveRefPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrImageUnavailable, err)
		}
		return data, nil

	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrImageUnavailable, err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrImageUnavailable, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d for %s", models.ErrImageUnavailable, resp.StatusCode, ref)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceImageBytes))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", models.ErrImageUnavailable, ref, err)
		}
		return data, nil

	default:
		path, err := s.localPath(ref)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrImageUnavailable, err)
		}
		return data, nil
	}
}

// localPath maps ref inside the local image directory, refusing to leave it
func (s *ImageService) localPath(ref string) (string, error) {
	for _, seg := range strings.Split(filepath.ToSlash(ref), "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: path traversal in %q", models.ErrImageUnavailable, ref)
		}
	}
	root, err := filepath.Abs(s.localDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve image directory: %w", err)
	}
	path := filepath.Join(root, filepath.Clean("/"+ref))
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q is outside the image directory", models.ErrImageUnavailable, ref)
	}
	return path, nil
}

// saveToCache saves an image to the cache
func (s *ImageService) saveToCache(cachePath string, imageData []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(cachePath, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	s.logger.Debug("✓ Image cached", zap.String("path", cachePath))
	return nil
}

// optimize converts an image to JPEG, scaled down to fit the size box
func (s *ImageService) optimize(imageData []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", models.ErrImageUnavailable, err)
	}

	var maxDim, quality int
	switch size {
	case SizeThumb:
		maxDim, quality = maxSizeThumb, qualityThumb
	case SizeMedium:
		maxDim, quality = maxSizeMedium, qualityMedium
	case SizeFull:
		maxDim, quality = maxSizeFull, qualityFull
	default:
		maxDim, quality = maxSizeMedium, qualityMedium
		s.logger.Warn("⚠️  Unknown size, defaulting to medium", zap.String("size", size))
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
