package hazard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"danger-zone/internal/apperr"
	"danger-zone/internal/audit"
	"danger-zone/internal/clearance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       *Service
	repo      *MemoryRepo
	auditRepo *audit.MemoryRepo
	decisions map[bool]int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Unix(1700000000, 0).UTC()
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	seq := 0
	f := &fixture{repo: NewMemoryRepo(), auditRepo: audit.NewMemoryRepo(), decisions: map[bool]int{}}
	auditor := audit.NewService(f.auditRepo, nil).WithClock(clock)
	f.svc = NewService(f.repo, auditor,
		WithClock(clock),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("hz-%d", seq) }),
		WithDecisionObserver(func(_ Operation, allowed bool) { f.decisions[allowed]++ }),
	)
	return f
}

func at(level int) context.Context {
	return clearance.WithLevel(context.Background(), clearance.Level(level))
}

func leak(rating int) Draft {
	return Draft{
		Title:             "Leak",
		RiskLevel:         RiskExtreme,
		Category:          CategoryChemical,
		Location:          "Lab 3",
		ConsequenceRating: intPtr(rating),
	}
}

func requireKind(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	var e *apperr.Error
	require.True(t, errors.As(err, &e), "expected *apperr.Error, got %v", err)
	require.Equal(t, kind, e.Kind, e.Error())
	return e
}

func TestCreate_ShortTitleRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(at(2), Draft{Title: "AB", RiskLevel: RiskLow, Category: CategoryChemical, Location: "X", ConsequenceRating: intPtr(3)})
	e := requireKind(t, err, apperr.KindValidationFailed)
	assert.Equal(t, "title", e.Field)
	assert.Zero(t, f.repo.count())
}

func TestCreate_ExtremeWithLowRatingIsInconsistent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(at(3), leak(5))
	requireKind(t, err, apperr.KindDataInconsistency)
	assert.Zero(t, f.repo.count())
}

func TestCreate_ExtremeNeedsLevelThree(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(at(2), leak(8))
	e := requireKind(t, err, apperr.KindInsufficientClearance)
	assert.Equal(t, 3, e.Required)
	assert.Equal(t, 2, e.Provided)
	assert.Zero(t, f.repo.count())

	entries, err := f.auditRepo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.OperationDenied, entries[0].Operation)
	assert.Equal(t, 1, f.decisions[false])
}

func TestCreate_ExtremeAtLevelThree(t *testing.T) {
	f := newFixture(t)
	r, err := f.svc.Create(at(3), leak(8))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, r.Status)
	assert.Equal(t, r.DateReported, r.LastInspection)
	assert.Equal(t, "Security Operator #3", r.ReportedBy)
	assert.Equal(t, DefaultDescription, r.Description)
	assert.NotNil(t, r.ProtectiveEquipment)

	stored, err := f.repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, stored)
}

func TestCreate_AppliesDefaults(t *testing.T) {
	f := newFixture(t)
	r, err := f.svc.Create(at(2), Draft{Title: "Loose cable", RiskLevel: RiskModerate, Category: CategoryElectrical})
	require.NoError(t, err)
	assert.Equal(t, DefaultConsequenceRating, r.ConsequenceRating)
	assert.Equal(t, DefaultLocation, r.Location)
}

func TestDelete_ExtremeNeedsLevelFive(t *testing.T) {
	f := newFixture(t)
	r, err := f.svc.Create(at(3), leak(8))
	require.NoError(t, err)

	_, err = f.svc.Delete(at(4), r.ID)
	e := requireKind(t, err, apperr.KindInsufficientClearance)
	assert.Equal(t, 5, e.Required)
	assert.Equal(t, 4, e.Provided)
	assert.Equal(t, 1, f.repo.count())

	before := countOps(t, f, audit.OperationRemoval)
	removed, err := f.svc.Delete(at(5), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, removed.ID)
	assert.Equal(t, before+1, countOps(t, f, audit.OperationRemoval))

	_, err = f.svc.Get(at(1), r.ID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestDelete_ReportsOneDecisionPerRequest(t *testing.T) {
	f := newFixture(t)
	r, err := f.svc.Create(at(3), leak(8))
	require.NoError(t, err)
	require.Equal(t, map[bool]int{true: 1}, f.decisions)

	_, err = f.svc.Delete(at(4), r.ID)
	requireKind(t, err, apperr.KindInsufficientClearance)
	assert.Equal(t, map[bool]int{true: 1, false: 1}, f.decisions)
	assert.Equal(t, 1, countOps(t, f, audit.OperationDenied))

	_, err = f.svc.Delete(at(5), r.ID)
	require.NoError(t, err)
	assert.Equal(t, map[bool]int{true: 2, false: 1}, f.decisions)

	_, err = f.svc.Delete(at(3), r.ID)
	requireKind(t, err, apperr.KindInsufficientClearance)
	assert.Equal(t, map[bool]int{true: 2, false: 2}, f.decisions)
}

func TestDelete_BaseCheckPrecedesLookup(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Delete(at(3), "missing")
	requireKind(t, err, apperr.KindInsufficientClearance)

	_, err = f.svc.Delete(at(4), "missing")
	requireKind(t, err, apperr.KindNotFound)
}

func TestDelete_DecreasesTotalByOne(t *testing.T) {
	f := newFixture(t)
	var last Record
	for i := 0; i < 3; i++ {
		r, err := f.svc.Create(at(2), Draft{Title: fmt.Sprintf("Hazard %d", i), RiskLevel: RiskLow, Category: CategoryMechanical})
		require.NoError(t, err)
		last = r
	}
	before, err := f.svc.Stats(at(2))
	require.NoError(t, err)

	_, err = f.svc.Delete(at(4), last.ID)
	require.NoError(t, err)

	after, err := f.svc.Stats(at(2))
	require.NoError(t, err)
	assert.Equal(t, before.TotalCount-1, after.TotalCount)
}

func TestList_ExtremeFilterNeedsLevelTwo(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(at(3), leak(9))
	require.NoError(t, err)

	_, err = f.svc.ByRiskLevel(at(1), RiskExtreme)
	requireKind(t, err, apperr.KindInsufficientClearance)

	got, err := f.svc.ByRiskLevel(at(2), RiskExtreme)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	all, err := f.svc.List(at(1), Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestList_MissingCredential(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.List(context.Background(), Filter{})
	requireKind(t, err, apperr.KindMissingCredential)
}

func TestUpdateStatusAndInspection(t *testing.T) {
	f := newFixture(t)
	r, err := f.svc.Create(at(2), Draft{Title: "Spinning blade", RiskLevel: RiskHigh, Category: CategoryMechanical})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(at(2), r.ID, StatusContained)
	requireKind(t, err, apperr.KindInsufficientClearance)

	_, err = f.svc.UpdateStatus(at(3), r.ID, Status("vanished"))
	e := requireKind(t, err, apperr.KindValidationFailed)
	assert.Equal(t, "status", e.Field)

	updated, err := f.svc.UpdateStatus(at(3), r.ID, StatusContained)
	require.NoError(t, err)
	assert.Equal(t, StatusContained, updated.Status)

	inspected, err := f.svc.RecordInspection(at(2), r.ID)
	require.NoError(t, err)
	assert.True(t, inspected.LastInspection.After(r.LastInspection))
	assert.Equal(t, r.DateReported, inspected.DateReported)

	_, err = f.svc.RecordInspection(at(2), "missing")
	requireKind(t, err, apperr.KindNotFound)
}

func TestSecurityLogs_NeedsLevelFiveAndAuditsRead(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SecurityLogs(at(4), 0)
	requireKind(t, err, apperr.KindInsufficientClearance)

	entries, err := f.svc.SecurityLogs(at(5), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.OperationAdmin, entries[0].Operation)

	entries, err = f.svc.SecurityLogs(at(5), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func countOps(t *testing.T, f *fixture, op audit.Operation) int {
	t.Helper()
	entries, err := f.auditRepo.List(context.Background())
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if e.Operation == op {
			n++
		}
	}
	return n
}

func (m *MemoryRepo) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
