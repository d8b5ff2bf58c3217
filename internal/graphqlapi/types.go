package graphqlapi

import (
	"time"

	"danger-zone/internal/audit"
	"danger-zone/internal/hazard"

	graphql "github.com/graph-gophers/graphql-go"
)

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

type dangerResolver struct{ r hazard.Record }

func dangers(records []hazard.Record) []*dangerResolver {
	out := make([]*dangerResolver, 0, len(records))
	for _, r := range records {
		out = append(out, &dangerResolver{r: r})
	}
	return out
}

func (d *dangerResolver) ID() graphql.ID { return graphql.ID(d.r.ID) }
func (d *dangerResolver) Title() string { return d.r.Title }

func (d *dangerResolver) Description() *string {
	if d.r.Description == "" {
		return nil
	}
	return &d.r.Description
}

func (d *dangerResolver) RiskLevel() string { return string(d.r.RiskLevel) }
func (d *dangerResolver) Category() string { return string(d.r.Category) }
func (d *dangerResolver) Location() string { return d.r.Location }
func (d *dangerResolver) ConsequenceRating() int32 { return int32(d.r.ConsequenceRating) }
func (d *dangerResolver) DateReported() string { return formatTime(d.r.DateReported) }
func (d *dangerResolver) LastInspection() string { return formatTime(d.r.LastInspection) }
func (d *dangerResolver) ReportedBy() string { return d.r.ReportedBy }
func (d *dangerResolver) Status() string { return string(d.r.Status) }
func (d *dangerResolver) ProtectiveEquipment() []string {
	return nonNil(d.r.ProtectiveEquipment)
}
func (d *dangerResolver) ContainmentProcedures() []string {
	return nonNil(d.r.ContainmentProcedures)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type statsResolver struct{ s hazard.Stats }

func (s *statsResolver) TotalCount() int32 { return int32(s.s.TotalCount) }
func (s *statsResolver) CriticalLevels() int32 { return int32(s.s.CriticalLevels) }

func (s *statsResolver) ByRiskLevel() []*riskLevelCountResolver {
	out := make([]*riskLevelCountResolver, 0, len(s.s.ByRiskLevel))
	for _, c := range s.s.ByRiskLevel {
		out = append(out, &riskLevelCountResolver{c: c})
	}
	return out
}

func (s *statsResolver) ByCategory() []*categoryCountResolver {
	out := make([]*categoryCountResolver, 0, len(s.s.ByCategory))
	for _, c := range s.s.ByCategory {
		out = append(out, &categoryCountResolver{c: c})
	}
	return out
}

type riskLevelCountResolver struct{ c hazard.RiskLevelCount }

func (r *riskLevelCountResolver) RiskLevel() string { return string(r.c.RiskLevel) }
func (r *riskLevelCountResolver) Count() int32 { return int32(r.c.Count) }

type categoryCountResolver struct{ c hazard.CategoryCount }

func (r *categoryCountResolver) Category() string { return string(r.c.Category) }
func (r *categoryCountResolver) Count() int32 { return int32(r.c.Count) }

type securityLogResolver struct{ e audit.Entry }

func (l *securityLogResolver) ID() graphql.ID { return graphql.ID(l.e.ID) }
func (l *securityLogResolver) Timestamp() string { return formatTime(l.e.Timestamp) }
func (l *securityLogResolver) Operation() string { return string(l.e.Operation) }
func (l *securityLogResolver) Details() string { return l.e.Details }
func (l *securityLogResolver) OperatorLevel() int32 { return int32(l.e.OperatorLevel) }

func (l *securityLogResolver) DangerID() *graphql.ID {
	if l.e.DangerID == "" {
		return nil
	}
	id := graphql.ID(l.e.DangerID)
	return &id
}
