// Package images resolves the local pokemon image folders.
package images

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/your-username/poke-search-api/internal/logger"
	"github.com/your-username/poke-search-api/internal/monitoring"
)

const (
	// Module labels the service's request-log lines and monitor records
	Module = "PokeImages"

	// MaxIndex is the highest image number looked up per pokemon
	MaxIndex = 10

	// StaticPrefix is where the images directory is served
	StaticPrefix = "/static/images"
)

// Extensions are tried in order; the first hit wins for each index
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif"}

var ErrNotFound = errors.New("image not found")

// Service lists and locates images under <dir>/<name>/<index><ext>
type Service struct {
	dir      string
	recorder monitoring.Recorder
	log      *logger.Logger
}

// NewService creates a service rooted at dir
func NewService(dir string, recorder monitoring.Recorder, l *logger.Logger) *Service {
	if l == nil {
		l = logger.Nop()
	}
	return &Service{dir: dir, recorder: recorder, log: l}
}

// Dir returns the images root
func (s *Service) Dir() string {
	return s.dir
}

// List returns the static URLs of the pokemon's images ordered by index.
// A missing folder yields an empty list.
func (s *Service) List(name string) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	start := s.log.Log("images", "get_all_images", "Listing images for "+name, time.Time{})

	urls := []string{}
	folder := filepath.Join(s.dir, name)
	if name == "" || !isDir(folder) {
		return urls
	}

	for i := 0; i <= MaxIndex; i++ {
		for _, ext := range Extensions {
			file := fmt.Sprintf("%d%s", i, ext)
			if isFile(filepath.Join(folder, file)) {
				urls = append(urls, fmt.Sprintf("%s/%s/%s", StaticPrefix, name, file))
				break
			}
		}
	}

	end := s.log.Log("images", "get_all_images", "Images listed", start)
	s.record("get_all_images", http.StatusOK, end.Sub(start))
	return urls
}

// Path locates <index>.jpg for the pokemon
func (s *Service) Path(name string, index int) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	start := s.log.Log("images", "get_image", fmt.Sprintf("Fetching image %d for %s", index, name), time.Time{})

	folder := filepath.Join(s.dir, name)
	if name == "" || strings.ContainsAny(name, `/\`) || !isDir(folder) {
		s.record("get_image", http.StatusNotFound, 0)
		return "", fmt.Errorf("%w: no folder for %q", ErrNotFound, name)
	}

	path := filepath.Join(folder, fmt.Sprintf("%d.jpg", index))
	if index < 0 || !isFile(path) {
		s.record("get_image", http.StatusNotFound, 0)
		return "", fmt.Errorf("%w: image %d.jpg", ErrNotFound, index)
	}

	end := s.log.Log("images", "get_image", "Image found", start)
	s.record("get_image", http.StatusOK, end.Sub(start))
	return path, nil
}

func (s *Service) record(api string, status int, elapsed time.Duration) {
	if s.recorder != nil {
		s.recorder.Record(Module, api, status, int(elapsed.Milliseconds()))
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
