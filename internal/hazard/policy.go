package hazard

import (
	"math"

	"danger-zone/internal/apperr"
	"danger-zone/internal/clearance"
)

// Operation names an action gated by the clearance policy.
type Operation string

const (
	OpRead         Operation = "read"
	OpStats        Operation = "read_stats"
	OpAuditLog     Operation = "read_audit_log"
	OpCreate       Operation = "create"
	OpUpdateStatus Operation = "update_status"
	OpInspect      Operation = "record_inspection"
	OpDelete       Operation = "delete"
)

type requirement struct {
	base clearance.Level
	// extreme applies instead of base when the targeted risk level is extreme. Zero means no elevation.
	extreme clearance.Level
	label   string
}

// policy is the single clearance table shared by every API surface.
var policy = map[Operation]requirement{
	OpRead:         {base: 1, extreme: 2, label: "query hazards"},
	OpStats:        {base: 2, label: "read hazard statistics"},
	OpAuditLog:     {base: 5, label: "read security logs"},
	OpCreate:       {base: 2, extreme: 3, label: "register hazard"},
	OpUpdateStatus: {base: 3, label: "update hazard status"},
	OpInspect:      {base: 2, label: "record inspection"},
	OpDelete:       {base: 4, extreme: 5, label: "remove hazard"},
}

// RequiredLevel returns the minimum clearance for op against a record of the given risk.
// Pass an empty risk when no record or filter is involved.
func RequiredLevel(op Operation, risk RiskLevel) clearance.Level {
	req, ok := policy[op]
	if !ok {
		// Unknown operations are never allowed.
		return clearance.Level(math.MaxInt)
	}
	if risk == RiskExtreme && req.extreme > req.base {
		return req.extreme
	}
	return req.base
}

// Authorize decides whether level may perform op. It returns nil on allow,
// a MissingCredential error when no clearance was presented, or an
// InsufficientClearance error carrying the required and provided levels.
func Authorize(op Operation, level clearance.Level, risk RiskLevel) error {
	if !level.Present() {
		return apperr.MissingCredential()
	}
	required := RequiredLevel(op, risk)
	if level >= required {
		return nil
	}
	req := policy[op]
	label := req.label
	if label == "" {
		label = string(op)
	}
	if risk == RiskExtreme && req.extreme > req.base {
		label += " (extreme risk)"
	}
	return apperr.InsufficientClearance(label, int(required), int(level))
}
