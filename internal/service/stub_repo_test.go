package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hubsync/internal/models"
	"hubsync/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It mirrors the checkpoint semantics of the real store: SaveSyncStateTx
// replaces the whole tracked row, MarkSyncAttempt only touches the attempt
// bookkeeping and never the watermark.
type stubRepo struct {
	contacts  map[string]models.Contact
	companies map[string]models.Company
	deals     map[string]models.Deal
	states    map[string]models.SyncState
	runs      []models.SyncRun

	saveCalls    int
	failUpserts  map[string]error
	failGetState error
	failSave     error
}

var _ repository.Repository = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{
		contacts:  map[string]models.Contact{},
		companies: map[string]models.Company{},
		deals:     map[string]models.Deal{},
		states:    map[string]models.SyncState{},
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) UpsertContactsTx(ctx context.Context, tx *gorm.DB, items []models.Contact) error {
	if err := s.failUpserts["contacts"]; err != nil {
		return err
	}
	for _, item := range items {
		s.contacts[item.HubSpotID] = item
	}
	return nil
}

func (s *stubRepo) UpsertCompaniesTx(ctx context.Context, tx *gorm.DB, items []models.Company) error {
	if err := s.failUpserts["companies"]; err != nil {
		return err
	}
	for _, item := range items {
		s.companies[item.HubSpotID] = item
	}
	return nil
}

func (s *stubRepo) UpsertDealsTx(ctx context.Context, tx *gorm.DB, items []models.Deal) error {
	if err := s.failUpserts["deals"]; err != nil {
		return err
	}
	for _, item := range items {
		s.deals[item.HubSpotID] = item
	}
	return nil
}

func (s *stubRepo) CountRecords(ctx context.Context, objectType string) (int64, error) {
	switch objectType {
	case "contacts":
		return int64(len(s.contacts)), nil
	case "companies":
		return int64(len(s.companies)), nil
	case "deals":
		return int64(len(s.deals)), nil
	default:
		return 0, fmt.Errorf("unsupported object type: %s", objectType)
	}
}

func (s *stubRepo) GetSyncState(ctx context.Context, objectType string) (*models.SyncState, error) {
	if s.failGetState != nil {
		return nil, s.failGetState
	}
	state, ok := s.states[objectType]
	if !ok {
		return nil, nil
	}
	copied := state
	return &copied, nil
}

func (s *stubRepo) SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error {
	if s.failSave != nil {
		return s.failSave
	}
	s.saveCalls++
	s.states[state.ObjectType] = *state
	return nil
}

func (s *stubRepo) MarkSyncAttempt(ctx context.Context, objectType string, at time.Time, attemptErr string) error {
	state := s.states[objectType]
	state.ObjectType = objectType
	at = at.UTC()
	state.LastAttemptAt = &at
	state.LastError = &attemptErr
	s.states[objectType] = state
	return nil
}

func (s *stubRepo) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	out := make([]models.SyncState, 0, len(s.states))
	for _, state := range s.states {
		out = append(out, state)
	}
	return out, nil
}

func (s *stubRepo) InsertSyncRun(ctx context.Context, run *models.SyncRun) error {
	s.runs = append(s.runs, *run)
	return nil
}

func (s *stubRepo) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	return s.runs, nil
}
