package audit

import "time"

// Entry is an immutable, append-only audit log record.
//
// Invariants:
// - Entries are never updated or deleted.
// - OperatorLevel is the clearance the caller presented, not a verified identity.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Operation Operation `json:"operation"`

	// DangerID is the hazard record the action touched, if any.
	DangerID string `json:"dangerId,omitempty"`

	// Details is a short human-readable description for operators.
	Details string `json:"details"`

	OperatorLevel int `json:"operatorLevel"`
}

type Operation string

const (
	OperationQuery      Operation = "QUERY"
	OperationRegister   Operation = "REGISTER"
	OperationRemoval    Operation = "REMOVAL"
	OperationUpdate     Operation = "UPDATE"
	OperationInspection Operation = "INSPECTION"
	OperationAdmin      Operation = "ADMIN"
	OperationDenied     Operation = "DENIED"
)
