package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestBinarize_StrictThreshold(t *testing.T) {
	img := createInMemoryImage(3, 1, black)
	img.Set(0, 0, color.RGBA{180, 180, 180, 255})
	img.Set(1, 0, color.RGBA{190, 190, 190, 255})
	img.Set(2, 0, white)

	mask := Binarize(img, 180)

	if Ink(mask, 0, 0) {
		t.Error("value equal to level must be background")
	}
	if !Ink(mask, 1, 0) {
		t.Error("value above level must be ink")
	}
	if !Ink(mask, 2, 0) {
		t.Error("white must be ink")
	}
}

func TestBinarize_Level255IsEmpty(t *testing.T) {
	mask := Binarize(createInMemoryImage(5, 5, white), 255)
	for _, s := range LineSums(mask, true) {
		if s != 0 {
			t.Fatalf("expected empty mask, got row sum %d", s)
		}
	}
}

func TestBinarize_NonZeroOrigin(t *testing.T) {
	img := createInMemoryImage(20, 20, black)
	img.Set(12, 13, white)
	sub := img.SubImage(image.Rect(10, 10, 20, 20))

	mask := Binarize(sub, 128)
	if mask.Rect.Min != (image.Point{}) {
		t.Fatalf("mask origin: got %v, want (0,0)", mask.Rect.Min)
	}
	if !Ink(mask, 2, 3) {
		t.Error("expected ink at rebased (2,3)")
	}
}

func TestBinarizeChannel_Green(t *testing.T) {
	img := createInMemoryImage(3, 1, black)
	img.Set(0, 0, color.RGBA{255, 0, 255, 255}) // magenta: no green
	img.Set(1, 0, yellow)
	img.Set(2, 0, white)

	mask := BinarizeChannel(img, Green, 180)

	want := []bool{false, true, true}
	for x, w := range want {
		if got := Ink(mask, x, 0); got != w {
			t.Errorf("x=%d: ink=%v, want %v", x, got, w)
		}
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		name string
		want Channel
		ok   bool
	}{
		{"green", Green, true},
		{"red", Red, true},
		{"blue", Blue, true},
		{"luma", Luma, true},
		{"", Luma, true},
		{"purple", Luma, false},
	}
	for _, tt := range tests {
		got, ok := ParseChannel(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseChannel(%q) = (%v,%v), want (%v,%v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDilate(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 11, 11))
	mask.SetGray(5, 5, color.Gray{255})

	out := Dilate(mask)

	for _, p := range []image.Point{{5, 5}, {4, 5}, {6, 5}, {5, 4}, {5, 6}} {
		if !Ink(out, p.X, p.Y) {
			t.Errorf("expected ink at %v after dilation", p)
		}
	}
	if Ink(out, 0, 0) || Ink(out, 8, 8) {
		t.Error("dilation spread too far")
	}
}

func TestInvert(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 2, 1))
	mask.SetGray(0, 0, color.Gray{255})

	out := Invert(mask)
	if Ink(out, 0, 0) || !Ink(out, 1, 0) {
		t.Error("Invert did not swap ink and background")
	}
}

func TestInk_OutOfBounds(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 2, 2))
	mask.SetGray(0, 0, color.Gray{255})
	if Ink(mask, -1, 0) || Ink(mask, 2, 0) {
		t.Error("out-of-bounds pixels must be background")
	}
}

func TestLineSums(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 4, 3))
	mask.SetGray(1, 0, color.Gray{255})
	mask.SetGray(1, 2, color.Gray{255})
	mask.SetGray(3, 2, color.Gray{255})

	rows := LineSums(mask, true)
	wantRows := []int{1, 0, 2}
	for i := range wantRows {
		if rows[i] != wantRows[i] {
			t.Errorf("row %d: got %d, want %d", i, rows[i], wantRows[i])
		}
	}

	cols := LineSums(mask, false)
	wantCols := []int{0, 2, 0, 1}
	for i := range wantCols {
		if cols[i] != wantCols[i] {
			t.Errorf("col %d: got %d, want %d", i, cols[i], wantCols[i])
		}
	}
}
