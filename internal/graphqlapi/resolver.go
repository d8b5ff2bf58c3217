package graphqlapi

import (
	"context"

	"danger-zone/internal/apperr"
	"danger-zone/internal/hazard"

	graphql "github.com/graph-gophers/graphql-go"
)

// Resolver is the root resolver for Query and Mutation.
type Resolver struct {
	hazards *hazard.Service
}

// clientErr hands the executor an *apperr.Error so its Extensions are rendered.
// The executor type-asserts the returned value directly, so it must not be wrapped.
func clientErr(err error) error {
	if err == nil {
		return nil
	}
	return apperr.From(err)
}

func (r *Resolver) Dangers(ctx context.Context, args struct {
	RiskLevel *string
	Category  *string
	MinRating *int32
}) ([]*dangerResolver, error) {
	var f hazard.Filter
	if args.RiskLevel != nil {
		f.RiskLevel = hazard.RiskLevel(*args.RiskLevel)
	}
	if args.Category != nil {
		f.Category = hazard.Category(*args.Category)
	}
	if args.MinRating != nil {
		min := int(*args.MinRating)
		f.MinRating = &min
	}
	out, err := r.hazards.List(ctx, f)
	if err != nil {
		return nil, clientErr(err)
	}
	return dangers(out), nil
}

func (r *Resolver) Danger(ctx context.Context, args struct{ ID graphql.ID }) (*dangerResolver, error) {
	rec, err := r.hazards.Get(ctx, string(args.ID))
	if err != nil {
		return nil, clientErr(err)
	}
	return &dangerResolver{r: rec}, nil
}

func (r *Resolver) DangersByRiskLevel(ctx context.Context, args struct{ Level string }) ([]*dangerResolver, error) {
	out, err := r.hazards.ByRiskLevel(ctx, hazard.RiskLevel(args.Level))
	if err != nil {
		return nil, clientErr(err)
	}
	return dangers(out), nil
}

func (r *Resolver) DangersByCategory(ctx context.Context, args struct{ Category string }) ([]*dangerResolver, error) {
	out, err := r.hazards.ByCategory(ctx, hazard.Category(args.Category))
	if err != nil {
		return nil, clientErr(err)
	}
	return dangers(out), nil
}

func (r *Resolver) DangerStats(ctx context.Context) (*statsResolver, error) {
	s, err := r.hazards.Stats(ctx)
	if err != nil {
		return nil, clientErr(err)
	}
	return &statsResolver{s: s}, nil
}

func (r *Resolver) SecurityLogs(ctx context.Context, args struct{ Limit *int32 }) ([]*securityLogResolver, error) {
	limit := 0
	if args.Limit != nil {
		limit = int(*args.Limit)
	}
	entries, err := r.hazards.SecurityLogs(ctx, limit)
	if err != nil {
		return nil, clientErr(err)
	}
	out := make([]*securityLogResolver, 0, len(entries))
	for _, e := range entries {
		out = append(out, &securityLogResolver{e: e})
	}
	return out, nil
}

type createArgs struct {
	Title                 string
	Description           *string
	RiskLevel             string
	Category              string
	Location              string
	ConsequenceRating     int32
	ProtectiveEquipment   *[]string
	ContainmentProcedures *[]string
}

func (a createArgs) draft() hazard.Draft {
	rating := int(a.ConsequenceRating)
	d := hazard.Draft{
		Title:             a.Title,
		RiskLevel:         hazard.RiskLevel(a.RiskLevel),
		Category:          hazard.Category(a.Category),
		Location:          a.Location,
		ConsequenceRating: &rating,
	}
	if a.Description != nil {
		d.Description = *a.Description
	}
	if a.ProtectiveEquipment != nil {
		d.ProtectiveEquipment = *a.ProtectiveEquipment
	}
	if a.ContainmentProcedures != nil {
		d.ContainmentProcedures = *a.ContainmentProcedures
	}
	return d
}

func (r *Resolver) CreateDanger(ctx context.Context, args createArgs) (*dangerResolver, error) {
	rec, err := r.hazards.Create(ctx, args.draft())
	if err != nil {
		return nil, clientErr(err)
	}
	return &dangerResolver{r: rec}, nil
}

func (r *Resolver) DeleteDanger(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	if _, err := r.hazards.Delete(ctx, string(args.ID)); err != nil {
		return false, clientErr(err)
	}
	return true, nil
}

func (r *Resolver) UpdateDangerStatus(ctx context.Context, args struct {
	ID     graphql.ID
	Status string
}) (*dangerResolver, error) {
	rec, err := r.hazards.UpdateStatus(ctx, string(args.ID), hazard.Status(args.Status))
	if err != nil {
		return nil, clientErr(err)
	}
	return &dangerResolver{r: rec}, nil
}

func (r *Resolver) RecordInspection(ctx context.Context, args struct{ ID graphql.ID }) (*dangerResolver, error) {
	rec, err := r.hazards.RecordInspection(ctx, string(args.ID))
	if err != nil {
		return nil, clientErr(err)
	}
	return &dangerResolver{r: rec}, nil
}
