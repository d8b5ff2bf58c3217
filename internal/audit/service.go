package audit

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

// Repository is the storage contract for audit entries.
//
// It MUST be append-only. No Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
}

// Service records operator actions against the hazard registry.
//
// Recording is fire-and-forget: failures are logged and never reach the caller.
type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, clock: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

var ErrNoRepository = errors.New("audit: repository not configured")

// Record appends an entry. dangerID may be empty.
func (s *Service) Record(ctx context.Context, op Operation, dangerID, details string, operatorLevel int) {
	if s == nil {
		return
	}
	now := s.clock().UTC()
	e := Entry{
		ID:            ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Timestamp:     now,
		Operation:     op,
		DangerID:      dangerID,
		Details:       details,
		OperatorLevel: operatorLevel,
	}

	attrs := []any{"operation", string(op), "details", details, "operator_level", operatorLevel}
	if dangerID != "" {
		attrs = append(attrs, "danger_id", dangerID)
	}

	if s.repo == nil {
		s.log.Error("audit append failed", append(attrs, "err", ErrNoRepository)...)
		return
	}
	if err := s.repo.Append(ctx, e); err != nil {
		s.log.Error("audit append failed", append(attrs, "err", err)...)
		return
	}
	s.log.Info("audit", attrs...)
}

// Read returns entries newest first. When limit > 0 at most limit entries are returned.
func (s *Service) Read(ctx context.Context, limit int) ([]Entry, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	// Reverse first so entries sharing a timestamp keep newest-appended first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}
