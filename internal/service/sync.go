package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hubsync/internal/client/hubspot"
	"hubsync/internal/models"
	"hubsync/internal/repository"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// propertyLister is the slice of the HubSpot client used to discover which
// properties exist on an object type.
type propertyLister interface {
	ListProperties(ctx context.Context, objectType string) ([]string, error)
}

type SyncOptions struct {
	ObjectTypes []string
	PageLimit   int
	MaxPages    int
	// Full ignores stored checkpoints and exports everything. Checkpoints
	// still advance afterwards.
	Full bool
	// InitialLookback bounds the first sync of a type that has no checkpoint
	// yet. Zero means export everything.
	InitialLookback    time.Duration
	DiscoverProperties bool
	Properties         map[string][]string
}

type ObjectSyncResult struct {
	ObjectType string     `json:"object_type"`
	Status     string     `json:"status"`
	Pages      int        `json:"pages"`
	Records    int        `json:"records"`
	Retries    int        `json:"retries"`
	Watermark  *time.Time `json:"watermark,omitempty"`
	Err        error      `json:"-"`
}

// RunReport aggregates the per-type outcomes of one invocation.
type RunReport struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Results    []ObjectSyncResult `json:"results"`
}

// FailedTypes lists the object types that did not complete.
func (r *RunReport) FailedTypes() []string {
	var out []string
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res.ObjectType)
		}
	}
	return out
}

// SyncService drives one export cycle. Object types run sequentially and
// independently: a failure in one is recorded and the next still runs. The
// per-type checkpoint (sync_state.last_sync_time) is written only after the
// type completed without error, and it advances to the largest updatedAt
// observed in the fetched records rather than to wall-clock time, so records
// modified mid-run are picked up again by the next cycle.
type SyncService struct {
	Store      repository.Repository
	Fetcher    *PageFetcher
	Properties propertyLister
	Logger     *zap.Logger
}

// Run executes one cycle over opts.ObjectTypes. The returned error is non-nil
// when any type failed, after every type has had its turn.
func (s *SyncService) Run(ctx context.Context, opts SyncOptions) (*RunReport, error) {
	if s.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if s.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}
	objectTypes := opts.ObjectTypes
	if len(objectTypes) == 0 {
		objectTypes = []string{"contacts", "companies", "deals"}
	}

	report := &RunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	if s.Logger != nil {
		s.Logger.Info("sync run starting",
			zap.String("run_id", report.RunID),
			zap.Strings("object_types", objectTypes))
	}
	for _, objectType := range objectTypes {
		report.Results = append(report.Results, s.syncObjectType(ctx, objectType, opts))
	}
	report.FinishedAt = time.Now().UTC()

	s.writeRunAudit(ctx, report)

	if failed := report.FailedTypes(); len(failed) > 0 {
		return report, fmt.Errorf("sync failed for: %s", strings.Join(failed, ", "))
	}
	if s.Logger != nil {
		s.Logger.Info("sync run finished",
			zap.String("run_id", report.RunID),
			zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))
	}
	return report, nil
}

func (s *SyncService) syncObjectType(ctx context.Context, objectType string, opts SyncOptions) ObjectSyncResult {
	result := ObjectSyncResult{ObjectType: objectType, Status: StatusFailed}

	props, err := s.resolveProperties(ctx, objectType, opts)
	if err != nil {
		return s.failObjectType(ctx, result, fmt.Errorf("discover properties: %w", err))
	}
	since, err := s.resolveSince(ctx, objectType, opts)
	if err != nil {
		return s.failObjectType(ctx, result, fmt.Errorf("load checkpoint: %w", err))
	}
	if s.Logger != nil {
		if since.IsZero() {
			s.Logger.Info("object sync starting", zap.String("object_type", objectType), zap.String("mode", "full"))
		} else {
			s.Logger.Info("object sync starting", zap.String("object_type", objectType), zap.Time("since", since))
		}
	}

	maxPages := normalizeMaxPages(opts.MaxPages)
	var (
		after   string
		maxSeen time.Time
	)
	done := false
	for page := 0; page < maxPages && !done; page++ {
		pageData, retries, err := s.Fetcher.FetchPage(ctx, objectType, hubspot.ListParams{
			Limit:         opts.PageLimit,
			Properties:    props,
			After:         after,
			ModifiedSince: since,
		})
		result.Retries += retries
		if err != nil {
			return s.failObjectType(ctx, result, fmt.Errorf("fetch page %d: %w", page+1, err))
		}
		result.Pages++
		if len(pageData.Results) > 0 {
			if err := s.writeBatch(ctx, objectType, pageData.Results); err != nil {
				return s.failObjectType(ctx, result, fmt.Errorf("write page %d: %w", page+1, err))
			}
			result.Records += len(pageData.Results)
			for _, obj := range pageData.Results {
				if obj.UpdatedAt.After(maxSeen) {
					maxSeen = obj.UpdatedAt
				}
			}
		}
		after = pageData.NextAfter()
		if after == "" {
			done = true
		}
	}

	result.Status = StatusSucceeded
	if result.Records == 0 {
		// Nothing changed upstream, leave the checkpoint row untouched so
		// idle cycles are exact no-ops.
		if s.Logger != nil {
			s.Logger.Info("object sync up to date",
				zap.String("object_type", objectType),
				zap.Int("pages", result.Pages))
		}
		return result
	}
	if !done && since.IsZero() {
		// An unfiltered export is not ordered by modification time, so a
		// truncated pass has no trustworthy watermark. Keep the checkpoint
		// unset and let the next run continue the backfill.
		if s.Logger != nil {
			s.Logger.Warn("page cap reached during full export, checkpoint not advanced",
				zap.String("object_type", objectType),
				zap.Int("pages", result.Pages))
		}
		return result
	}
	if !done && s.Logger != nil {
		s.Logger.Warn("page cap reached, remaining changes deferred to next run",
			zap.String("object_type", objectType),
			zap.Int("pages", result.Pages))
	}

	watermark := maxSeen.UTC()
	if watermark.Before(since) {
		// Never move the checkpoint backwards.
		watermark = since
	}
	if watermark.IsZero() {
		if s.Logger != nil {
			s.Logger.Warn("fetched records carry no usable timestamps, checkpoint not advanced",
				zap.String("object_type", objectType))
		}
		return result
	}
	result.Watermark = &watermark
	now := time.Now().UTC()
	state := &models.SyncState{
		ObjectType:    objectType,
		LastSyncTime:  &watermark,
		LastAttemptAt: &now,
		LastSuccessAt: &now,
		LastError:     nil,
		StatsJSON:     statsJSON(map[string]int{"pages": result.Pages, "records": result.Records, "retries": result.Retries}),
	}
	if err := s.Store.InTx(ctx, func(tx *gorm.DB) error {
		return s.Store.SaveSyncStateTx(ctx, tx, state)
	}); err != nil {
		return s.failObjectType(ctx, result, fmt.Errorf("save checkpoint: %w", err))
	}
	if s.Logger != nil {
		s.Logger.Info("object sync finished",
			zap.String("object_type", objectType),
			zap.Int("pages", result.Pages),
			zap.Int("records", result.Records),
			zap.Int("retries", result.Retries),
			zap.Time("watermark", watermark))
	}
	return result
}

func (s *SyncService) resolveProperties(ctx context.Context, objectType string, opts SyncOptions) ([]string, error) {
	if opts.DiscoverProperties && s.Properties != nil {
		names, err := s.Properties.ListProperties(ctx, objectType)
		if err != nil {
			return nil, err
		}
		if len(names) > 0 {
			return names, nil
		}
	}
	return opts.Properties[objectType], nil
}

// resolveSince loads the stored watermark. A missing row or null watermark
// means the type has never completed a sync; InitialLookback then bounds the
// window, or zero time requests an unfiltered export.
func (s *SyncService) resolveSince(ctx context.Context, objectType string, opts SyncOptions) (time.Time, error) {
	if opts.Full {
		return time.Time{}, nil
	}
	state, err := s.Store.GetSyncState(ctx, objectType)
	if err != nil {
		return time.Time{}, err
	}
	if state != nil && state.LastSyncTime != nil {
		return state.LastSyncTime.UTC(), nil
	}
	if opts.InitialLookback > 0 {
		return time.Now().UTC().Add(-opts.InitialLookback), nil
	}
	return time.Time{}, nil
}

func (s *SyncService) writeBatch(ctx context.Context, objectType string, objs []hubspot.Object) error {
	syncedAt := time.Now().UTC()
	return s.Store.InTx(ctx, func(tx *gorm.DB) error {
		switch objectType {
		case "contacts":
			return s.Store.UpsertContactsTx(ctx, tx, mapContacts(objs, syncedAt))
		case "companies":
			return s.Store.UpsertCompaniesTx(ctx, tx, mapCompanies(objs, syncedAt))
		case "deals":
			return s.Store.UpsertDealsTx(ctx, tx, mapDeals(objs, syncedAt))
		default:
			return fmt.Errorf("unsupported object type: %s", objectType)
		}
	})
}

// failObjectType records the attempt without touching the watermark, so the
// next run retries the same window.
func (s *SyncService) failObjectType(ctx context.Context, result ObjectSyncResult, err error) ObjectSyncResult {
	result.Status = StatusFailed
	result.Err = err
	if s.Logger != nil {
		s.Logger.Error("object sync failed",
			zap.String("object_type", result.ObjectType),
			zap.Int("pages", result.Pages),
			zap.Int("records", result.Records),
			zap.Error(err))
	}
	if merr := s.Store.MarkSyncAttempt(ctx, result.ObjectType, time.Now().UTC(), err.Error()); merr != nil && s.Logger != nil {
		s.Logger.Warn("recording failed attempt",
			zap.String("object_type", result.ObjectType),
			zap.Error(merr))
	}
	return result
}

func (s *SyncService) writeRunAudit(ctx context.Context, report *RunReport) {
	status := StatusSucceeded
	detail := make(map[string]any, len(report.Results))
	for _, res := range report.Results {
		entry := map[string]any{
			"status":  res.Status,
			"pages":   res.Pages,
			"records": res.Records,
			"retries": res.Retries,
		}
		if res.Watermark != nil {
			entry["watermark"] = res.Watermark.Format(time.RFC3339Nano)
		}
		if res.Err != nil {
			entry["error"] = res.Err.Error()
		}
		if res.Status == StatusFailed {
			status = StatusFailed
		}
		detail[res.ObjectType] = entry
	}
	finishedAt := report.FinishedAt
	run := &models.SyncRun{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: &finishedAt,
		Status:     status,
		Detail:     mustJSON(detail),
	}
	if err := s.Store.InsertSyncRun(ctx, run); err != nil && s.Logger != nil {
		s.Logger.Warn("recording sync run", zap.String("run_id", report.RunID), zap.Error(err))
	}
}

func normalizeMaxPages(maxPages int) int {
	if maxPages <= 0 {
		return math.MaxInt
	}
	return maxPages
}
