package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// fakeGateway answers the handful of endpoints the CLI talks to
func fakeGateway(t *testing.T, failRecord bool) (*httptest.Server, *int32) {
	t.Helper()
	var recorded int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "bucket": "aaraa-erp-assets"})
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "token": "tok-123"})
	})
	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Authorization header required"})
			return
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "No file uploaded"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"path":    "gs://aaraa-erp-assets/uploads/" + header.Filename,
			"url":     "https://storage.googleapis.com/aaraa-erp-assets/uploads/" + header.Filename,
		})
	})
	mux.HandleFunc("/api/submissions", func(w http.ResponseWriter, r *http.Request) {
		if failRecord {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "database unavailable"})
			return
		}
		atomic.AddInt32(&recorded, 1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"submission": map[string]any{"id": "sub-1", "status": "PENDING"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &recorded
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"UPLINK_SERVER", "UPLINK_TOKEN", "UPLINK_EMPLOYEE", "UPLINK_PASSWORD"} {
		t.Setenv(k, "")
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("content"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	return p
}

func TestHealthCommand(t *testing.T) {
	srv, _ := fakeGateway(t, false)

	out, err := runCLI(t, "health", "--server", srv.URL)
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if !strings.Contains(out, `"status": "ok"`) {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestPushCommand(t *testing.T) {
	srv, recorded := fakeGateway(t, false)
	file := writeFile(t, "slab.jpg")

	out, err := runCLI(t, "push", file, "--server", srv.URL, "--employee", "AI1003", "--password", "123")
	if err != nil {
		t.Fatalf("push failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "uploads/slab.jpg (sub-1)") {
		t.Errorf("Unexpected output: %s", out)
	}
	if atomic.LoadInt32(recorded) != 1 {
		t.Errorf("Expected 1 registration, got %d", *recorded)
	}
}

func TestPushCommandReportsOrphan(t *testing.T) {
	srv, _ := fakeGateway(t, true)
	file := writeFile(t, "bill.pdf")

	out, err := runCLI(t, "push", file, "--server", srv.URL, "--token", "tok-123", "--type", "bill", "--amount", "4200")
	if err == nil {
		t.Fatal("Expected push to fail when registration fails")
	}
	if !strings.Contains(out, "stored at https://storage.googleapis.com/aaraa-erp-assets/uploads/bill.pdf but not registered") {
		t.Errorf("Expected orphan URL in output, got %s", out)
	}
}

func TestPushCommandRejectsNonPositiveTimeout(t *testing.T) {
	for _, timeout := range []string{"0", "-5s"} {
		t.Run(timeout, func(t *testing.T) {
			srv, recorded := fakeGateway(t, false)
			file := writeFile(t, "slab.jpg")

			_, err := runCLI(t, "push", file, "--server", srv.URL, "--token", "tok-123", "--timeout="+timeout)
			if err == nil || !strings.Contains(err.Error(), "--timeout must be positive") {
				t.Fatalf("Expected timeout validation error, got %v", err)
			}
			if atomic.LoadInt32(recorded) != 0 {
				t.Errorf("Expected no registration, got %d", *recorded)
			}
		})
	}
}

func TestPushCommandValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no files", []string{"push", "--token", "x"}},
		{"unknown type", []string{"push", "a.jpg", "--token", "x", "--type", "memo"}},
		{"path with many files", []string{"push", "a.jpg", "b.jpg", "--token", "x", "--path", "k"}},
		{"no credentials", []string{"push", "a.jpg"}},
		{"zero timeout", []string{"health", "--timeout", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
