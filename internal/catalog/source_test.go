// internal/catalog/source_test.go
package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"plan-advisor/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Fetch(t *testing.T) {
	t.Run("returns the catalog body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(testCatalogJSON))
		}))
		defer server.Close()

		source := NewHTTPSource(server.URL, 5*time.Second)
		data, err := source.Fetch(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, testCatalogJSON, string(data))
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		source := NewHTTPSource(server.URL, 5*time.Second)
		_, err := source.Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 503")
	})

	t.Run("unreachable server is an error", func(t *testing.T) {
		source := NewHTTPSource("http://127.0.0.1:1", time.Second)
		_, err := source.Fetch(context.Background())
		assert.Error(t, err)
	})
}

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogJSON), 0o644))

	source, err := NewFileSource(path, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer source.Close()

	data, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, testCatalogJSON, string(data))

	// Second read is served from memory.
	again, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestFileSource_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogJSON), 0o644))

	source, err := NewFileSource(path, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer source.Close()

	_, err = source.Fetch(context.Background())
	require.NoError(t, err)

	updated := `{"telecom_providers": {}}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	assert.Eventually(t, func() bool {
		data, err := source.Fetch(context.Background())
		return err == nil && string(data) == updated
	}, 3*time.Second, 50*time.Millisecond, "watcher should invalidate the cached copy")
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json"), logger.NewTestLogger(t))
	assert.Error(t, err)
}
