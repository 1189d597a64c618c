package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	out, err := New().Execute(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("Execute() = %q, want %q", out, "hello")
	}
}

func TestExecuteInDir(t *testing.T) {
	dir := t.TempDir()
	out, err := New().ExecuteInDir(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), strings.TrimPrefix(dir, "/private")) {
		t.Errorf("ExecuteInDir() = %q, want %q", out, dir)
	}
}

func TestExecute_Errors(t *testing.T) {
	_, err := New().Execute(context.Background(), "definitely-not-a-real-binary-xyz")
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Errorf("Execute() error = %v, want ErrBinaryNotFound", err)
	}

	_, err = New().Execute(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	if err == nil || !strings.Contains(err.Error(), "stderr: broken") {
		t.Errorf("Execute() error = %v, want stderr in message", err)
	}
}

func TestLastLines(t *testing.T) {
	got := lastLines("a\nb\nc\nd\n", 2)
	if got != "c\nd" {
		t.Errorf("lastLines() = %q, want %q", got, "c\nd")
	}
}
