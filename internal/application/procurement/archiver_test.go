package procurement

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockExportStorage is a mock implementation of ExportStorage
type MockExportStorage struct {
	mock.Mock
}

func (m *MockExportStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockExportStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockExportStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func TestExportArchiver_ArchiveExport(t *testing.T) {
	f := newWorkflowFixture(DefaultWorkflowConfig())
	ctx := context.Background()
	pr := f.createApproved(t)
	expires := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	storage := new(MockExportStorage)
	var uploaded []byte
	storage.On("ObjectExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	storage.On("Upload", ctx, mock.AnythingOfType("string"), mock.Anything, "application/json").
		Run(func(args mock.Arguments) { uploaded = args.Get(2).([]byte) }).
		Return(nil).Once()
	storage.On("GenerateDownloadURL", ctx, mock.AnythingOfType("string"), 10*time.Minute).
		Return("https://files.local/export.json", expires, nil)

	archiver := NewExportArchiver(f.service, storage, 10*time.Minute, nil)
	result, err := archiver.ArchiveExport(ctx, pr.ID)
	require.NoError(t, err)
	assert.False(t, result.Reused)
	assert.Contains(t, result.StorageKey, "exports/purchase-requisitions/"+pr.PRNumber+"/")
	assert.Equal(t, "https://files.local/export.json", result.DownloadURL)
	assert.Equal(t, expires, result.ExpiresAt)

	var doc PurchasingDocument
	require.NoError(t, json.Unmarshal(uploaded, &doc))
	assert.Equal(t, pr.PRNumber, doc.Header.PRNumber)

	// unchanged PR maps to the same key and is not uploaded again
	storage.On("ObjectExists", ctx, result.StorageKey).Return(true, nil).Once()
	again, err := archiver.ArchiveExport(ctx, pr.ID)
	require.NoError(t, err)
	assert.True(t, again.Reused)
	assert.Equal(t, result.StorageKey, again.StorageKey)
	storage.AssertNumberOfCalls(t, "Upload", 1)
}
