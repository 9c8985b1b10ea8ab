package daemon

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestStartForeground_emptyHome(t *testing.T) {
	err := StartForeground(context.Background(), StartOptions{Home: ""})
	if err == nil {
		t.Fatal("StartForeground empty home: expected error")
	}
}

func TestStatus_noPidFile(t *testing.T) {
	st, err := Status(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Running {
		t.Error("no pid file should mean not running")
	}
}

func TestStatus_stalePidFileIsCleaned(t *testing.T) {
	home := t.TempDir()
	if err := os.MkdirAll(protectedDir(home), 0o755); err != nil {
		t.Fatal(err)
	}
	// A pid that cannot belong to a live process.
	if err := os.WriteFile(pidPath(home), []byte("999999999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := Status(context.Background(), home)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Running {
		t.Error("stale pid should report not running")
	}
	if _, err := os.Stat(pidPath(home)); !os.IsNotExist(err) {
		t.Error("stale pid file should be removed")
	}
}

func TestStatus_garbagePidFile(t *testing.T) {
	home := t.TempDir()
	if err := os.MkdirAll(protectedDir(home), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pidPath(home), []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	st, _ := Status(context.Background(), home)
	if st.Running {
		t.Error("garbage pid file should report not running")
	}
}

func TestCheckPortAvailable(t *testing.T) {
	ln, err := net.Listen("tcp", "0.0.0.0:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	if err := checkPortAvailable(port); err == nil {
		t.Errorf("port %d is held, checkPortAvailable should fail", port)
	}
}

func TestAcquireLock_singleton(t *testing.T) {
	home := t.TempDir()
	if err := os.MkdirAll(protectedDir(home), 0o755); err != nil {
		t.Fatal(err)
	}
	lock, err := acquireLock(lockPath(home))
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	defer lock.release()

	if _, err := acquireLock(lockPath(home)); err == nil {
		t.Error("second lock on the same home should fail")
	}
}

func TestPaths(t *testing.T) {
	home := "/srv/crewdeck"
	want := filepath.Join(home, "protected")
	if protectedDir(home) != want {
		t.Errorf("protectedDir = %q", protectedDir(home))
	}
	for name, got := range map[string]string{
		"daemon.pid":  pidPath(home),
		"daemon.lock": lockPath(home),
		"daemon.addr": addrPath(home),
	} {
		if got != filepath.Join(want, name) {
			t.Errorf("%s path = %q", name, got)
		}
	}
}
