package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hubsync/internal/models"
)

// Repository is the storage surface the export job runs against. Replica
// upserts and the checkpoint write for a cycle share a transaction via InTx.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	UpsertContactsTx(ctx context.Context, tx *gorm.DB, items []models.Contact) error
	UpsertCompaniesTx(ctx context.Context, tx *gorm.DB, items []models.Company) error
	UpsertDealsTx(ctx context.Context, tx *gorm.DB, items []models.Deal) error
	CountRecords(ctx context.Context, objectType string) (int64, error)

	GetSyncState(ctx context.Context, objectType string) (*models.SyncState, error)
	SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error
	// MarkSyncAttempt records a failed attempt without moving the watermark.
	MarkSyncAttempt(ctx context.Context, objectType string, at time.Time, attemptErr string) error
	ListSyncStates(ctx context.Context) ([]models.SyncState, error)

	InsertSyncRun(ctx context.Context, run *models.SyncRun) error
	ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error)
}
