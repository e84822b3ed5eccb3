package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func withProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func TestGetTrayAppConfigDir(t *testing.T) {
	configDir := withConfigDir(t)
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != trayDir {
		t.Errorf("expected %s, got %s", trayDir, dir)
	}

	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/habitual/dir"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, customDir)
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	tests := []struct {
		name       string
		lockfile   string // empty means no lockfile
		executable string
		wantErr    string
	}{
		{name: "missing lockfile", wantErr: "not running"},
		{name: "old two-part format", lockfile: "8080|12345", wantErr: "malformed"},
		{name: "garbage", lockfile: "invalid", wantErr: "malformed"},
		{name: "empty secret", lockfile: "8080|12345|", wantErr: "secret"},
		{name: "empty port", lockfile: "|12345|s3cret", wantErr: "port"},
		{name: "port out of range", lockfile: "99999|12345|s3cret", wantErr: "range"},
		{name: "bad pid", lockfile: "8080|abc|s3cret", wantErr: "process ID"},
		{name: "process gone", lockfile: "8080|12345|s3cret", wantErr: "not running"},
		{name: "wrong executable", lockfile: "8080|12345|s3cret", executable: "other-app", wantErr: "is not"},
		{name: "valid", lockfile: "8080|12345|s3cret", executable: constants.TrayAppExecutable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcess(t, tt.executable)
			path := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
			if tt.lockfile != "" {
				if err := os.WriteFile(path, []byte(tt.lockfile), 0644); err != nil {
					t.Fatal(err)
				}
			}

			ep, err := findAndValidateTrayProcess(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ep.port != 8080 || ep.secret != "s3cret" {
				t.Errorf("unexpected endpoint: %+v", ep)
			}
		})
	}
}

func newTray(t *testing.T, failures int32) (endpoint, *[]WebhookPayload) {
	t.Helper()
	var received []WebhookPayload
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Habitual-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if calls.Add(1) <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received = append(received, payload)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	u, _ := url.Parse(server.URL)
	port, _ := strconv.Atoi(u.Port())
	return endpoint{port: port, secret: "test-secret"}, &received
}

func TestSend(t *testing.T) {
	ep, received := newTray(t, 0)
	n := New()

	if err := n.send(context.Background(), ep, WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(*received) != 1 || (*received)[0].Text != "hello" {
		t.Errorf("unexpected payloads: %+v", *received)
	}

	ep.secret = "wrong-secret"
	err := n.send(context.Background(), ep, WebhookPayload{Text: "hello"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestDeliverRetries(t *testing.T) {
	configDir := withConfigDir(t)
	withProcess(t, constants.TrayAppExecutable)

	ep, received := newTray(t, 2)
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%d|4242|%s", ep.port, ep.secret)
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0644); err != nil {
		t.Fatal(err)
	}

	n := New()
	n.retryDelay = time.Millisecond

	trigger := models.Trigger{ID: "t1", Weekday: time.Monday, Hour: 8, Title: constants.ReminderTitle, Body: "Read"}
	if err := n.Deliver(context.Background(), trigger); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if len(*received) != 1 {
		t.Fatalf("expected one delivered payload, got %d", len(*received))
	}
	got := (*received)[0]
	if got.Title != constants.ReminderTitle || got.Text != "Habit Reminder: Read" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestDeliverWithoutTray(t *testing.T) {
	withConfigDir(t)
	err := New().Deliver(context.Background(), models.Trigger{Title: "x"})
	if !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning, got %v", err)
	}
}
