package connection

import (
	"homework-wall/biz/infrastructure/config"
	"os"
	"path/filepath"
	"testing"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	c := &config.Config{}
	c.Setup.Path = filepath.Join(t.TempDir(), "data", "connection.json")
	return NewFileStore(c)
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newTestFileStore(t)

	got, err := s.Load()
	if err != nil || got != nil {
		t.Fatalf("Load absent: want (nil, nil) got=(%v, %v)", got, err)
	}

	conn, err := Parse(`{ apiKey: "k", projectId: "p", databaseDriver: memory }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := s.Save(conn); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(s.path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file perm: want=0600 got=%o", perm)
	}

	got, err = s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *conn {
		t.Fatalf("Load: want=%+v got=%+v", conn, got)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear twice: %v", err)
	}
	if got, _ := s.Load(); got != nil {
		t.Fatalf("Load after clear: want nil got=%+v", got)
	}
}
