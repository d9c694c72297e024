package device

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"time"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/logger"
)

// Inject-touch control message constants of the scrcpy protocol.
const (
	msgInjectTouch  = 0x02
	ActionDown      = 0x00
	ActionUp        = 0x01
	touchMessageLen = 32

	buttonPrimary = 0x00000001
)

// pointerFinger is the pointer id scrcpy reserves for a generic finger.
const pointerFinger uint64 = 0xFFFFFFFFFFFFFFFE

// EncodeTouch builds one inject-touch message. All fields are big-endian:
// type (1), action (1), pointer id (8), x (4), y (4), screen width (2),
// screen height (2), pressure (2), action button (4), buttons (4).
func EncodeTouch(action byte, x, y, width, height int) []byte {
	msg := make([]byte, touchMessageLen)
	msg[0] = msgInjectTouch
	msg[1] = action
	binary.BigEndian.PutUint64(msg[2:], pointerFinger)
	binary.BigEndian.PutUint32(msg[10:], uint32(x))
	binary.BigEndian.PutUint32(msg[14:], uint32(y))
	binary.BigEndian.PutUint16(msg[18:], uint16(width))
	binary.BigEndian.PutUint16(msg[20:], uint16(height))
	binary.BigEndian.PutUint32(msg[24:], buttonPrimary)
	if action == ActionDown {
		binary.BigEndian.PutUint16(msg[22:], 0xFFFF)
		binary.BigEndian.PutUint32(msg[28:], buttonPrimary)
	}
	return msg
}

// ScrcpyConfig describes the scrcpy server pushed to the device.
type ScrcpyConfig struct {
	ServerJar     string // local path of the scrcpy-server file
	ServerVersion string
	Host          string
	Port          int
	Width         int
	Height        int
	AcceptTimeout time.Duration
}

const remoteJar = "/data/local/tmp/scrcpy-server.jar"

// ScrcpyChannel sends taps as inject-touch messages over the scrcpy control
// socket.
type ScrcpyChannel struct {
	*tapQueue
	conn    net.Conn
	cleanup func()
}

// NewScrcpyChannel starts the worker on an established control connection.
func NewScrcpyChannel(conn net.Conn, width, height int) *ScrcpyChannel {
	return &ScrcpyChannel{
		conn: conn,
		tapQueue: newTapQueue(func(p domain.Point) error {
			if _, err := conn.Write(EncodeTouch(ActionDown, p.X, p.Y, width, height)); err != nil {
				return err
			}
			_, err := conn.Write(EncodeTouch(ActionUp, p.X, p.Y, width, height))
			return err
		}),
	}
}

// Close sends every queued tap, then closes the socket and stops the server.
func (c *ScrcpyChannel) Close() error {
	err := c.tapQueue.Close()
	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	if c.cleanup != nil {
		c.cleanup()
	}
	return err
}

// LaunchScrcpy pushes and starts the scrcpy server with only the control
// stream enabled, then waits for it to connect back through an adb reverse
// tunnel.
func LaunchScrcpy(ctx context.Context, adb *ADB, cfg ScrcpyConfig) (*ScrcpyChannel, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.AcceptTimeout <= 0 {
		cfg.AcceptTimeout = 10 * time.Second
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, &domain.OpError{Op: "scrcpy.listen", Kind: domain.KindIO, Err: err}
	}
	defer ln.Close()

	setup := [][]string{
		{"reverse", "--remove-all"},
		{"reverse", "localabstract:scrcpy", "tcp:" + strconv.Itoa(cfg.Port)},
		{"shell", "rm", "-rf", remoteJar},
		{"push", cfg.ServerJar, remoteJar},
	}
	for _, args := range setup {
		if _, err := adb.Command(ctx, args...); err != nil {
			return nil, err
		}
	}

	server := exec.Command(adb.Path, adb.Args(
		"shell",
		"CLASSPATH="+remoteJar,
		"app_process", "/", "com.genymobile.scrcpy.Server", cfg.ServerVersion,
		"log_level=info",
		"video=false",
		"audio=false",
		"control=true",
		"stay_awake=true",
		"power_off_on_close=false",
		"clipboard_autosync=false",
	)...)
	if err := server.Start(); err != nil {
		return nil, &domain.OpError{Op: "scrcpy.start", Kind: domain.KindIO, Err: err}
	}
	stop := func() {
		server.Process.Kill()
		server.Wait()
		adb.Command(context.Background(), "shell", "am", "kill", "com.genymobile.scrcpy.Server")
	}

	if tl, ok := ln.(*net.TCPListener); ok {
		tl.SetDeadline(time.Now().Add(cfg.AcceptTimeout))
	}
	conn, err := ln.Accept()
	if err != nil {
		stop()
		return nil, &domain.OpError{Op: "scrcpy.accept", Kind: domain.KindIO, Err: fmt.Errorf("server did not connect: %w", err)}
	}
	logger.L().Info("scrcpy.connected", "remote", conn.RemoteAddr().String())

	ch := NewScrcpyChannel(conn, cfg.Width, cfg.Height)
	ch.cleanup = stop
	return ch, nil
}
