package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createTestImage writes a solid PNG into the test's temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := createInMemoryImage(width, height, c)

	path := filepath.Join(t.TempDir(), "screen.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 60, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 60 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x60", bounds.Dx(), bounds.Dy())
	}

	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 10, 10, color.RGBA{0, 255, 0, 255})

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Evict(imgPath)
	cache.Evict("/nonexistent/path")

	cache.mu.RLock()
	_, exists := cache.images[imgPath]
	cache.mu.RUnlock()
	if exists {
		t.Error("Evict did not remove image from cache")
	}

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Clear()

	cache.mu.RLock()
	count := len(cache.images)
	cache.mu.RUnlock()
	if count != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", count)
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}

func TestDecode_NormalizesOrigin(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(7, 3, white)); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Rect != image.Rect(0, 0, 7, 3) {
		t.Errorf("bounds: got %v, want (0,0)-(7,3)", img.Rect)
	}
}

func TestSavePNG_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug", "nested", "board.png")

	if err := SavePNG(createInMemoryImage(4, 4, black), path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	img, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width: got %d, want 4", img.Bounds().Dx())
	}
}

func TestSaveImageToTemp(t *testing.T) {
	path, err := SaveImageToTemp(createInMemoryImage(3, 3, yellow), "picross-band")
	if err != nil {
		t.Fatalf("SaveImageToTemp failed: %v", err)
	}
	defer os.Remove(path)

	if filepath.Ext(path) != ".png" {
		t.Errorf("extension: got %s, want .png", filepath.Ext(path))
	}
	if _, err := LoadFile(path); err != nil {
		t.Errorf("saved file is not a readable image: %v", err)
	}
}
