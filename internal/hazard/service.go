package hazard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"danger-zone/internal/apperr"
	"danger-zone/internal/audit"
	"danger-zone/internal/clearance"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// DecisionObserver is told about every authorization decision.
type DecisionObserver func(op Operation, allowed bool)

// Service is the hazard registry. Both API surfaces call it; it owns every policy check.
//
// The caller's clearance is read from the context (see clearance.WithLevel).
// Authorization and validation complete before any write, so a failed request never
// leaves a partial mutation behind.
type Service struct {
	repo    Repository
	audit   *audit.Service
	log     *slog.Logger
	clock   func() time.Time
	newID   func() string
	observe DecisionObserver
}

type Option func(*Service)

func WithClock(clock func() time.Time) Option { return func(s *Service) { s.clock = clock } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

func WithIDGenerator(gen func() string) Option { return func(s *Service) { s.newID = gen } }

func WithDecisionObserver(o DecisionObserver) Option { return func(s *Service) { s.observe = o } }

func NewService(repo Repository, auditor *audit.Service, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		audit:   auditor,
		log:     slog.Default(),
		clock:   time.Now,
		newID:   uuid.NewString,
		observe: func(Operation, bool) {},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// authorize checks the policy for the caller in ctx and audits denials.
func (s *Service) authorize(ctx context.Context, op Operation, risk RiskLevel, dangerID string) (clearance.Level, error) {
	level := clearance.FromContext(ctx)
	err := Authorize(op, level, risk)
	s.decided(ctx, op, level, dangerID, err)
	return level, err
}

// decided reports one authorization outcome to the observer and audits it when denied.
func (s *Service) decided(ctx context.Context, op Operation, level clearance.Level, dangerID string, err error) {
	s.observe(op, err == nil)
	if err != nil {
		s.audit.Record(ctx, audit.OperationDenied, dangerID, fmt.Sprintf("%s denied: %s", op, err.Error()), int(level))
	}
}

// storeErr maps repository failures onto the registry error taxonomy.
func (s *Service) storeErr(op Operation, id string, err error) error {
	if errors.Is(err, ErrNoRecord) {
		return apperr.NotFound(id)
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperr.SystemFailure(oops.Code("STORE_FAILED").With("operation", string(op)).With("danger_id", id).Wrap(err))
}

// List returns records matching every supplied filter. Filtering on extreme risk needs a higher clearance.
func (s *Service) List(ctx context.Context, f Filter) ([]Record, error) {
	level, err := s.authorize(ctx, OpRead, f.RiskLevel, "")
	if err != nil {
		return nil, err
	}
	out, err := s.repo.Filter(ctx, f.Predicate())
	if err != nil {
		return nil, s.storeErr(OpRead, "", err)
	}
	s.audit.Record(ctx, audit.OperationQuery, "", fmt.Sprintf("%d hazards retrieved%s", len(out), describeFilter(f)), int(level))
	return out, nil
}

func (s *Service) ByRiskLevel(ctx context.Context, level RiskLevel) ([]Record, error) {
	return s.List(ctx, Filter{RiskLevel: level})
}

func (s *Service) ByCategory(ctx context.Context, c Category) ([]Record, error) {
	return s.List(ctx, Filter{Category: c})
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	level, err := s.authorize(ctx, OpRead, "", id)
	if err != nil {
		return Record{}, err
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Record{}, s.storeErr(OpRead, id, err)
	}
	if r.RiskLevel == RiskExtreme {
		s.log.Warn("extreme hazard accessed", "danger_id", r.ID, "operator_level", int(level))
	}
	s.audit.Record(ctx, audit.OperationQuery, id, fmt.Sprintf("hazard %s accessed", id), int(level))
	return r, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	level, err := s.authorize(ctx, OpStats, "", "")
	if err != nil {
		return Stats{}, err
	}
	all, err := s.repo.All(ctx)
	if err != nil {
		return Stats{}, s.storeErr(OpStats, "", err)
	}
	s.audit.Record(ctx, audit.OperationQuery, "", "hazard statistics accessed", int(level))
	return ComputeStats(all), nil
}

// Create registers a new hazard. Checks run in order: clearance, field validation, consistency.
func (s *Service) Create(ctx context.Context, d Draft) (Record, error) {
	level, err := s.authorize(ctx, OpCreate, d.RiskLevel, "")
	if err != nil {
		return Record{}, err
	}
	if err := Validate(d); err != nil {
		return Record{}, err
	}
	rating := DefaultConsequenceRating
	if d.ConsequenceRating != nil {
		rating = *d.ConsequenceRating
	}
	if err := CheckConsistency(d.RiskLevel, rating); err != nil {
		return Record{}, err
	}

	now := s.clock().UTC()
	r := Record{
		ID:                    s.newID(),
		Title:                 strings.TrimSpace(d.Title),
		Description:           orDefault(d.Description, DefaultDescription),
		RiskLevel:             d.RiskLevel,
		Category:              d.Category,
		Location:              orDefault(d.Location, DefaultLocation),
		ConsequenceRating:     rating,
		DateReported:          now,
		LastInspection:        now,
		ReportedBy:            reportedBy(int(level)),
		Status:                StatusActive,
		ProtectiveEquipment:   nonNil(d.ProtectiveEquipment),
		ContainmentProcedures: nonNil(d.ContainmentProcedures),
	}
	if err := s.repo.Insert(ctx, r); err != nil {
		return Record{}, s.storeErr(OpCreate, r.ID, err)
	}

	s.audit.Record(ctx, audit.OperationRegister, r.ID,
		fmt.Sprintf("%s - %s - category: %s", AlertMessage(r.RiskLevel), r.Title, r.Category), int(level))
	return r, nil
}

// Delete removes a hazard permanently. The base clearance is checked before the lookup;
// extreme hazards need the elevated clearance, checked against the stored record under
// the store lock. Either way one decision is reported.
func (s *Service) Delete(ctx context.Context, id string) (Record, error) {
	level := clearance.FromContext(ctx)
	if err := Authorize(OpDelete, level, ""); err != nil {
		s.decided(ctx, OpDelete, level, id, err)
		return Record{}, err
	}

	var denied error
	removed, err := s.repo.Remove(ctx, id, func(r Record) error {
		denied = Authorize(OpDelete, level, r.RiskLevel)
		return denied
	})
	s.decided(ctx, OpDelete, level, id, denied)
	if err != nil {
		return Record{}, s.storeErr(OpDelete, id, err)
	}
	s.audit.Record(ctx, audit.OperationRemoval, id,
		fmt.Sprintf("hazard removed: %s - risk: %s", removed.Title, removed.RiskLevel), int(level))
	return removed, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Record, error) {
	level, err := s.authorize(ctx, OpUpdateStatus, "", id)
	if err != nil {
		return Record{}, err
	}
	if !status.Valid() {
		return Record{}, apperr.ValidationFailed("status", "invalid hazard status")
	}
	r, err := s.repo.Update(ctx, id, func(r *Record) error {
		r.Status = status
		return nil
	})
	if err != nil {
		return Record{}, s.storeErr(OpUpdateStatus, id, err)
	}
	s.audit.Record(ctx, audit.OperationUpdate, id, fmt.Sprintf("status updated to: %s", status), int(level))
	return r, nil
}

func (s *Service) RecordInspection(ctx context.Context, id string) (Record, error) {
	level, err := s.authorize(ctx, OpInspect, "", id)
	if err != nil {
		return Record{}, err
	}
	now := s.clock().UTC()
	r, err := s.repo.Update(ctx, id, func(r *Record) error {
		r.LastInspection = now
		return nil
	})
	if err != nil {
		return Record{}, s.storeErr(OpInspect, id, err)
	}
	s.audit.Record(ctx, audit.OperationInspection, id, fmt.Sprintf("inspection recorded for hazard: %s", r.Title), int(level))
	return r, nil
}

// SecurityLogs returns audit entries newest first. The read itself is audited before listing,
// so it appears in its own result.
func (s *Service) SecurityLogs(ctx context.Context, limit int) ([]audit.Entry, error) {
	level, err := s.authorize(ctx, OpAuditLog, "", "")
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, audit.OperationAdmin, "", "security logs accessed", int(level))
	entries, err := s.audit.Read(ctx, limit)
	if err != nil {
		return nil, apperr.SystemFailure(oops.Code("AUDIT_READ_FAILED").Wrap(err))
	}
	return entries, nil
}

func describeFilter(f Filter) string {
	var parts []string
	if f.RiskLevel != "" {
		parts = append(parts, "riskLevel="+string(f.RiskLevel))
	}
	if f.Category != "" {
		parts = append(parts, "category="+string(f.Category))
	}
	if f.MinRating != nil {
		parts = append(parts, fmt.Sprintf("minRating=%d", *f.MinRating))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
