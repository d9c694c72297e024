package solver

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/picross-capture/internal/domain"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExec_Invoke(t *testing.T) {
	sh := requireShell(t)
	spec := filepath.Join(t.TempDir(), "solve.nin")
	if err := os.WriteFile(spec, []byte("1 1\n1\n#\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := &Exec{Path: sh, Args: []string{"-c", `echo "Solution nb 1"; head -n 1 "$0"`}, Timeout: 5 * time.Second}
	out, err := s.Invoke(context.Background(), spec)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if out != "Solution nb 1\n1 1\n" {
		t.Errorf("output: got %q", out)
	}
}

func TestExec_Failure(t *testing.T) {
	sh := requireShell(t)

	s := &Exec{Path: sh, Args: []string{"-c", "echo broken puzzle >&2; exit 3"}, Timeout: 5 * time.Second}
	_, err := s.Invoke(context.Background(), "spec.nin")
	if !domain.IsKind(err, domain.KindSolver) {
		t.Fatalf("expected solver OpError, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken puzzle") {
		t.Errorf("stderr missing from error: %v", err)
	}
}

func TestExec_Timeout(t *testing.T) {
	sh := requireShell(t)

	s := &Exec{Path: sh, Args: []string{"-c", "exec sleep 5"}, Timeout: 50 * time.Millisecond}
	_, err := s.Invoke(context.Background(), "spec.nin")
	if !domain.IsKind(err, domain.KindSolver) || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestExec_NotConfigured(t *testing.T) {
	_, err := NewExec("", 0).Invoke(context.Background(), "spec.nin")
	if !domain.IsKind(err, domain.KindSolver) {
		t.Errorf("expected solver OpError, got %v", err)
	}
}
