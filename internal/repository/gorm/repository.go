package gormrepository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hubsync/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) UpsertContactsTx(ctx context.Context, tx *gorm.DB, items []models.Contact) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hubspot_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email",
			"first_name",
			"last_name",
			"phone",
			"company",
			"lead_status",
			"lifecycle_stage",
			"archived",
			"raw_properties",
			"created_at",
			"updated_at",
			"last_synced_at",
		}),
	}), items, 200)
}

func (s *Store) UpsertCompaniesTx(ctx context.Context, tx *gorm.DB, items []models.Company) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hubspot_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"domain",
			"phone",
			"industry",
			"city",
			"state",
			"country",
			"website",
			"archived",
			"raw_properties",
			"created_at",
			"updated_at",
			"last_synced_at",
		}),
	}), items, 200)
}

func (s *Store) UpsertDealsTx(ctx context.Context, tx *gorm.DB, items []models.Deal) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hubspot_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"stage",
			"pipeline",
			"amount",
			"close_date",
			"owner_id",
			"archived",
			"raw_properties",
			"created_at",
			"updated_at",
			"last_synced_at",
		}),
	}), items, 200)
}

func (s *Store) CountRecords(ctx context.Context, objectType string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var model any
	switch objectType {
	case "contacts":
		model = &models.Contact{}
	case "companies":
		model = &models.Company{}
	case "deals":
		model = &models.Deal{}
	default:
		return 0, fmt.Errorf("unknown object type %q", objectType)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) GetSyncState(ctx context.Context, objectType string) (*models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var state models.SyncState
	err := s.db.WithContext(ctx).First(&state, "object_type = ?", objectType).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error {
	if state == nil {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "object_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_sync_time",
			"last_success_at",
			"last_attempt_at",
			"last_error",
			"stats",
		}),
	}).Create(state).Error
}

// MarkSyncAttempt upserts only the attempt bookkeeping so a failed cycle can
// never move last_sync_time.
func (s *Store) MarkSyncAttempt(ctx context.Context, objectType string, at time.Time, attemptErr string) error {
	if s == nil || s.db == nil {
		return nil
	}
	state := models.SyncState{
		ObjectType:    objectType,
		LastAttemptAt: &at,
		LastError:     &attemptErr,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "object_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_attempt_at",
			"last_error",
		}),
	}).Create(&state).Error
}

func (s *Store) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var states []models.SyncState
	if err := s.db.WithContext(ctx).Order("object_type asc").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

func (s *Store) InsertSyncRun(ctx context.Context, run *models.SyncRun) error {
	if s == nil || s.db == nil || run == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *Store) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var runs []models.SyncRun
	if err := s.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func createInBatches[T any](db *gorm.DB, items []T, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return db.CreateInBatches(items, batchSize).Error
}
