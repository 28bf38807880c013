package images

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/your-username/poke-search-api/internal/monitoring"
)

func writeImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	folder := filepath.Join(dir, "pikachu")
	if err := os.MkdirAll(folder, 0755); err != nil {
		t.Fatal(err)
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(folder, n), []byte("img"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "0.jpg", "1.png", "1.gif", "2.jpeg", "11.jpg", "cover.jpg")

	m := monitoring.NewMonitor(nil)
	svc := NewService(dir, m, nil)

	got := svc.List("Pikachu")
	want := []string{
		"/static/images/pikachu/0.jpg",
		"/static/images/pikachu/1.png",
		"/static/images/pikachu/2.jpeg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if m.Len() != 1 {
		t.Errorf("expected one monitor record, got %d", m.Len())
	}
}

func TestListMissingFolder(t *testing.T) {
	svc := NewService(t.TempDir(), nil, nil)
	got := svc.List("bulbasaur")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "0.jpg", "1.png")

	m := monitoring.NewMonitor(nil)
	svc := NewService(dir, m, nil)

	path, err := svc.Path("pikachu", 0)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "pikachu", "0.jpg") {
		t.Errorf("unexpected path %s", path)
	}

	if _, err := svc.Path("pikachu", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-jpg index, got %v", err)
	}
	if _, err := svc.Path("../pikachu", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for traversal, got %v", err)
	}

	records, _ := m.Records()
	if len(records) != 3 || records[1].Status != 404 || records[0].Submodule != "get_image" {
		t.Errorf("unexpected records %+v", records)
	}
}
