// internal/catalog/source.go
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"plan-advisor/internal/common/httpclient"
	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/common/metrics"

	"github.com/fsnotify/fsnotify"
)

// Source supplies the raw catalog document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// HTTPSource fetches the catalog JSON from a configured URL.
type HTTPSource struct {
	url    string
	client *httpclient.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: httpclient.NewClient(timeout),
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.CatalogFetchesTotal.WithLabelValues(s.Name(), "error").Inc()
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.CatalogFetchesTotal.WithLabelValues(s.Name(), "error").Inc()
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CatalogFetchesTotal.WithLabelValues(s.Name(), "error").Inc()
		return nil, fmt.Errorf("read catalog body: %w", err)
	}

	metrics.CatalogFetchesTotal.WithLabelValues(s.Name(), "ok").Inc()
	return data, nil
}

// FileSource reads the catalog from a local JSON file and invalidates its
// in-memory copy when the file changes on disk.
type FileSource struct {
	mu      sync.RWMutex
	path    string
	cached  []byte
	watcher *fsnotify.Watcher
	log     logger.Logger
}

func NewFileSource(path string, log logger.Logger) (*FileSource, error) {
	s := &FileSource{
		path: path,
		log:  log.WithFields(map[string]interface{}{"catalogFile": path}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create catalog watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch catalog file: %w", err)
	}
	s.watcher = watcher

	go s.watch()
	return s, nil
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) watch() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Small delay so the write is complete before re-reading.
				time.Sleep(100 * time.Millisecond)
				s.mu.Lock()
				s.cached = nil
				s.mu.Unlock()
				s.log.Info("catalog file changed, cache invalidated", map[string]interface{}{
					"event": event.Op.String(),
				})
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("catalog watcher error", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		metrics.CatalogFetchesTotal.WithLabelValues(s.Name(), "error").Inc()
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	s.mu.Lock()
	s.cached = data
	s.mu.Unlock()

	metrics.CatalogFetchesTotal.WithLabelValues(s.Name(), "ok").Inc()
	return data, nil
}

func (s *FileSource) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
