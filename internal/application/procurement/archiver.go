package procurement

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ExportStorage is the object store purchasing documents are archived to
type ExportStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ArchiveResult locates an archived purchasing document
type ArchiveResult struct {
	StorageKey  string    `json:"storage_key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	Size        int       `json:"size"`
	Reused      bool      `json:"reused"`
}

// ExportArchiver stores purchasing documents in object storage.
// Keys are derived from the document content, so archiving an unchanged PR
// twice reuses the stored object.
type ExportArchiver struct {
	workflow  *WorkflowService
	storage   ExportStorage
	urlExpiry time.Duration
	logger    *zap.Logger
}

// NewExportArchiver creates a new ExportArchiver
func NewExportArchiver(workflow *WorkflowService, storage ExportStorage, urlExpiry time.Duration, logger *zap.Logger) *ExportArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &ExportArchiver{
		workflow:  workflow,
		storage:   storage,
		urlExpiry: urlExpiry,
		logger:    logger,
	}
}

// ArchiveExport serializes the PR's purchasing document and uploads it
func (a *ExportArchiver) ArchiveExport(ctx context.Context, prID int64) (*ArchiveResult, error) {
	doc, err := a.workflow.ExportForPurchasing(ctx, prID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal purchasing document: %w", err)
	}
	sum := sha256.Sum256(data)
	key := fmt.Sprintf("exports/purchase-requisitions/%s/%s.json", doc.Header.PRNumber, hex.EncodeToString(sum[:8]))

	exists, err := a.storage.ObjectExists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := a.storage.Upload(ctx, key, data, "application/json"); err != nil {
			return nil, err
		}
		a.logger.Info("Purchasing document archived",
			zap.Int64("pr_id", prID),
			zap.String("pr_number", doc.Header.PRNumber),
			zap.String("storage_key", key),
		)
	}

	url, expiresAt, err := a.storage.GenerateDownloadURL(ctx, key, a.urlExpiry)
	if err != nil {
		return nil, err
	}

	return &ArchiveResult{
		StorageKey:  key,
		DownloadURL: url,
		ExpiresAt:   expiresAt,
		Size:        len(data),
		Reused:      exists,
	}, nil
}
