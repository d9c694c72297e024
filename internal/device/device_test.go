package device

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	out   []byte
	err   error
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	return f.out, f.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestADBSource_Capture(t *testing.T) {
	fr := &fakeRunner{out: pngBytes(t, 8, 6)}
	src := &ADBSource{ADB: &ADB{Path: "adb", Serial: "emulator-5554", Run: fr.run}}

	img, err := src.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("size: got %v", img.Bounds())
	}
	if want := "adb -s emulator-5554 exec-out screencap -p"; fr.calls[0] != want {
		t.Errorf("command: got %q, want %q", fr.calls[0], want)
	}
}

func TestADBSource_Errors(t *testing.T) {
	src := &ADBSource{ADB: &ADB{Path: "adb", Run: (&fakeRunner{err: errors.New("no devices")}).run}}
	if _, err := src.Capture(context.Background()); !domain.IsKind(err, domain.KindIO) {
		t.Errorf("expected io OpError, got %v", err)
	}

	src = &ADBSource{ADB: &ADB{Path: "adb", Run: (&fakeRunner{out: []byte("not a png")}).run}}
	if _, err := src.Capture(context.Background()); !domain.IsKind(err, domain.KindIO) {
		t.Errorf("expected io OpError for bad image, got %v", err)
	}
}

func TestFileSource_Capture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.png")
	if err := os.WriteFile(path, pngBytes(t, 4, 4), 0o644); err != nil {
		t.Fatal(err)
	}
	src := &FileSource{Path: path, Cache: imaging.NewImageCache()}

	img, err := src.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width: got %d", img.Bounds().Dx())
	}

	src.Path = filepath.Join(t.TempDir(), "missing.png")
	if _, err := src.Capture(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTapChannel_DrainsOnClose(t *testing.T) {
	fr := &fakeRunner{}
	ch := NewTapChannel(context.Background(), &ADB{Path: "adb", Run: fr.run}, 0)

	for i := 0; i < 5; i++ {
		if err := ch.Enqueue(10*i, 20*i); err != nil {
			t.Fatalf("Enqueue %d failed: %v", i, err)
		}
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if len(fr.calls) != 5 {
		t.Fatalf("taps sent: got %d, want 5", len(fr.calls))
	}
	if fr.calls[3] != "adb shell input tap 30 60" {
		t.Errorf("tap command: got %q", fr.calls[3])
	}
	if err := ch.Enqueue(1, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Enqueue after Close: got %v, want ErrClosed", err)
	}
	if err := ch.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestTapChannel_ReportsFirstError(t *testing.T) {
	fr := &fakeRunner{err: errors.New("device offline")}
	ch := NewTapChannel(context.Background(), &ADB{Path: "adb", Run: fr.run}, 0)

	ch.Enqueue(1, 1)
	ch.Enqueue(2, 2)
	err := ch.Close()
	if err == nil || !strings.Contains(err.Error(), "device offline") {
		t.Fatalf("Close: got %v", err)
	}
	if len(fr.calls) != 1 {
		t.Errorf("taps after failure should be skipped, got %d calls", len(fr.calls))
	}
}

func TestEncodeTouch(t *testing.T) {
	down := EncodeTouch(ActionDown, 540, 1200, 1080, 2400)
	if len(down) != 32 {
		t.Fatalf("length: got %d, want 32", len(down))
	}
	want := []byte{
		0x02, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE,
		0x00, 0x00, 0x02, 0x1C,
		0x00, 0x00, 0x04, 0xB0,
		0x04, 0x38,
		0x09, 0x60,
		0xFF, 0xFF,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x01,
	}
	if !bytes.Equal(down, want) {
		t.Errorf("down message:\ngot  % X\nwant % X", down, want)
	}

	up := EncodeTouch(ActionUp, 540, 1200, 1080, 2400)
	if up[1] != ActionUp {
		t.Errorf("action: got %d", up[1])
	}
	if binary.BigEndian.Uint16(up[22:]) != 0 {
		t.Error("up pressure should be zero")
	}
	if binary.BigEndian.Uint32(up[24:]) != 1 || binary.BigEndian.Uint32(up[28:]) != 0 {
		t.Errorf("up buttons: % X", up[24:])
	}
}

func TestScrcpyChannel(t *testing.T) {
	client, device := net.Pipe()

	received := make(chan []byte, 1)
	go func() {
		data, _ := io.ReadAll(device)
		received <- data
	}()

	ch := NewScrcpyChannel(client, 1080, 2400)
	ch.Enqueue(100, 200)
	ch.Enqueue(300, 400)
	if err := ch.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data := <-received
	if len(data) != 4*32 {
		t.Fatalf("bytes received: got %d, want %d", len(data), 4*32)
	}
	second := data[64:96]
	if second[1] != ActionDown || binary.BigEndian.Uint32(second[10:]) != 300 || binary.BigEndian.Uint32(second[14:]) != 400 {
		t.Errorf("second tap down: % X", second)
	}
	if data[97] != ActionUp {
		t.Errorf("second tap up action: got %d", data[97])
	}
}
