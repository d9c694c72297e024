package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestCropRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, black)
	img.Set(30, 40, white)

	tests := []struct {
		name    string
		r       image.Rectangle
		wantErr bool
		wantW   int
		wantH   int
	}{
		{"valid region", image.Rect(25, 35, 75, 85), false, 50, 50},
		{"whole image", image.Rect(0, 0, 100, 100), false, 100, 100},
		{"outside bounds", image.Rect(50, 50, 150, 150), true, 0, 0},
		{"empty region", image.Rect(50, 50, 50, 60), true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CropRegion(img, tt.r)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CropRegion failed: %v", err)
			}
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d", got.Bounds().Dx(), got.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}

	cropped, _ := CropRegion(img, image.Rect(25, 35, 75, 85))
	if r, _, _, _ := cropped.At(5, 5).RGBA(); r>>8 != 255 {
		t.Error("pixel (30,40) should land at (5,5) in the crop")
	}
}

func TestCropPadded(t *testing.T) {
	img := createInMemoryImage(10, 10, white)

	out := CropPadded(img, image.Rect(2, 2, 6, 5), 3, black)

	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 9 {
		t.Fatalf("size: got %dx%d, want 10x9", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if r, _, _, _ := out.At(0, 0).RGBA(); r != 0 {
		t.Error("border should be fill colour")
	}
	if r, _, _, _ := out.At(3, 3).RGBA(); r>>8 != 255 {
		t.Error("content should start at (margin, margin)")
	}
}

func TestCropPadded_ClipsToBounds(t *testing.T) {
	img := createInMemoryImage(10, 10, white)
	out := CropPadded(img, image.Rect(8, 8, 20, 20), 1, black)
	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 4 {
		t.Errorf("size: got %dx%d, want 4x4", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestCropMaskPadded(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 5, 5))
	mask.SetGray(2, 2, color.Gray{255})

	out := CropMaskPadded(mask, image.Rect(1, 1, 4, 4), 2)

	if out.Bounds().Dx() != 7 || out.Bounds().Dy() != 7 {
		t.Fatalf("size: got %dx%d, want 7x7", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if !Ink(out, 3, 3) {
		t.Error("ink pixel should move to (3,3)")
	}
	if Ink(out, 0, 0) {
		t.Error("padding should be background")
	}
}

func TestEncodePNGBase64(t *testing.T) {
	img := createInMemoryImage(8, 8, yellow)

	encoded, err := EncodePNGBase64(img)
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	back, err := png.Decode(strings.NewReader(string(decoded)))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if back.Bounds().Dx() != 8 {
		t.Errorf("width: got %d, want 8", back.Bounds().Dx())
	}
}
