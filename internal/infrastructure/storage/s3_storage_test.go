package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wms/backend/internal/infrastructure/config"
)

func TestNewS3Storage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKey: "k", SecretKey: "s"}, "bucket is required"},
		{"missing access key", &config.StorageConfig{Bucket: "b", SecretKey: "s"}, "access key is required"},
		{"missing secret key", &config.StorageConfig{Bucket: "b", AccessKey: "k"}, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Storage(tt.cfg, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// fakeS3 answers the path-style object requests the storage issues
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	puts    int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		f.puts++
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStorage(t *testing.T) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string]string)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3Storage(&config.StorageConfig{
		Endpoint:          srv.URL,
		Bucket:            "wms-exports",
		AccessKey:         "minio",
		SecretKey:         "minio-secret",
		UsePathStyle:      true,
		PresignExpiration: 5 * time.Minute,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s, fake
}

func TestS3Storage_UploadAndExists(t *testing.T) {
	s, fake := newTestStorage(t)
	ctx := context.Background()
	key := "exports/purchase-requisitions/PR-20240315-0001/abcd.json"

	exists, err := s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Upload(ctx, key, []byte(`{"pr_number":"PR-20240315-0001"}`), "application/json"))
	assert.Equal(t, 1, fake.puts)

	exists, err = s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestS3Storage_GenerateDownloadURL(t *testing.T) {
	s, _ := newTestStorage(t)

	url, expiresAt, err := s.GenerateDownloadURL(context.Background(), "exports/a.json", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "/wms-exports/exports/a.json")
	assert.Contains(t, url, "X-Amz-Expires=300")
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)
}

func TestS3Storage_EmptyKey(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Upload(ctx, "", nil, "application/json"), ErrEmptyKey)
	_, err := s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, _, err = s.GenerateDownloadURL(ctx, "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemoryStorage(t *testing.T) {
	m := NewMemoryStorage("http://localhost:8080/files")
	ctx := context.Background()

	exists, err := m.ObjectExists(ctx, "exports/x.json")
	require.NoError(t, err)
	assert.False(t, exists)

	data := []byte("payload")
	require.NoError(t, m.Upload(ctx, "exports/x.json", data, "application/json"))
	data[0] = 'X'

	got, contentType, ok := m.Get("exports/x.json")
	require.True(t, ok)
	assert.Equal(t, "payload", string(got))
	assert.Equal(t, "application/json", contentType)

	url, _, err := m.GenerateDownloadURL(ctx, "exports/x.json", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/files/exports/x.json?expires="))
}
