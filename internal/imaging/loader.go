package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded screenshots to avoid
// redundant disk reads.
//
// The cache stores normalised *image.NRGBA values keyed by their file path.
// Once a screenshot is loaded, subsequent Load() calls for the same path return
// the cached copy without disk I/O. The MCP server keeps one cache for its
// lifetime so that detecting the board and extracting the clues of the same
// screenshot decode it only once.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// A 1080x2400 screenshot occupies roughly 10 MB once decoded.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*image.NRGBA),
	}
}

// Load retrieves a screenshot from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, and GIF.
//
// Returns:
//   - *image.NRGBA: The decoded image with a zero origin.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// LoadFile decodes an image file without caching it.
func LoadFile(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return Normalize(img), nil
}

// Decode reads an encoded image (PNG, JPEG or GIF) from r and normalises it.
//
// The ADB screenshot source feeds the raw output of `screencap -p` through
// this function.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return Normalize(img), nil
}

// Normalize copies img into a zero-origin *image.NRGBA.
func Normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// SavePNG writes img to path as a PNG file, creating parent directories.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// SaveImageToTemp saves an image to a temporary PNG file and returns its path.
//
// The operator console uses it to hand an ambiguous clue band to an image
// viewer. The file is created in the system's temp directory with the format
// <prefix>-<random>.png.
//
// IMPORTANT: The caller is responsible for deleting the temporary file
// after use with os.Remove().
func SaveImageToTemp(img image.Image, prefix string) (string, error) {
	f, err := os.CreateTemp("", prefix+"-*.png")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}
