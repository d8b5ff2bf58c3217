package hazard

import (
	"fmt"
	"slices"
	"time"
)

type RiskLevel string

const (
	RiskExtreme  RiskLevel = "extreme"
	RiskHigh     RiskLevel = "high"
	RiskModerate RiskLevel = "moderate"
	RiskLow      RiskLevel = "low"
)

// RiskLevels lists every risk level, most severe first. Statistics follow this order.
var RiskLevels = []RiskLevel{RiskExtreme, RiskHigh, RiskModerate, RiskLow}

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskExtreme, RiskHigh, RiskModerate, RiskLow:
		return true
	default:
		return false
	}
}

// Critical reports whether the level demands immediate attention.
func (r RiskLevel) Critical() bool { return r == RiskExtreme || r == RiskHigh }

type Category string

const (
	CategoryChemical   Category = "chemical"
	CategoryElectrical Category = "electrical"
	CategoryMechanical Category = "mechanical"
	CategoryBiological Category = "biological"
	CategoryRadiation  Category = "radiation"
)

var Categories = []Category{CategoryChemical, CategoryElectrical, CategoryMechanical, CategoryBiological, CategoryRadiation}

func (c Category) Valid() bool {
	switch c {
	case CategoryChemical, CategoryElectrical, CategoryMechanical, CategoryBiological, CategoryRadiation:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusActive     Status = "active"
	StatusContained  Status = "contained"
	StatusMitigated  Status = "mitigated"
	StatusEliminated Status = "eliminated"
)

var Statuses = []Status{StatusActive, StatusContained, StatusMitigated, StatusEliminated}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusContained, StatusMitigated, StatusEliminated:
		return true
	default:
		return false
	}
}

// Record is one tracked hazard.
//
// Invariants:
// - ID, DateReported and ReportedBy never change after creation.
// - RiskLevel extreme implies ConsequenceRating >= 7.
// - Status changes only through UpdateStatus; LastInspection only through RecordInspection.
type Record struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	RiskLevel         RiskLevel `json:"riskLevel"`
	Category          Category  `json:"category"`
	Location          string    `json:"location"`
	ConsequenceRating int       `json:"consequenceRating"`
	DateReported      time.Time `json:"dateReported"`
	LastInspection    time.Time `json:"lastInspection"`
	ReportedBy        string    `json:"reportedBy"`
	Status            Status    `json:"status"`

	ProtectiveEquipment   []string `json:"protectiveEquipment"`
	ContainmentProcedures []string `json:"containmentProcedures"`
}

// clone returns a copy that shares no slices with r.
func (r Record) clone() Record {
	out := r
	out.ProtectiveEquipment = slices.Clone(r.ProtectiveEquipment)
	out.ContainmentProcedures = slices.Clone(r.ContainmentProcedures)
	return out
}

const (
	DefaultDescription       = "Details not provided - standard protocol in effect"
	DefaultLocation          = "Unknown location - exercise extra caution"
	DefaultConsequenceRating = 5

	MinConsequenceRating     = 1
	MaxConsequenceRating     = 10
	MinExtremeConsequence    = 7
	minTitleLength           = 3
	minExtremeLocationLength = 5
)

func reportedBy(level int) string {
	return fmt.Sprintf("Security Operator #%d", level)
}

// AlertMessage is the operator-facing banner for a newly registered hazard.
func AlertMessage(r RiskLevel) string {
	switch r {
	case RiskExtreme:
		return "CRITICAL HAZARD REGISTERED - EVACUATION RECOMMENDED"
	case RiskHigh:
		return "SEVERE HAZARD REGISTERED - RESTRICTED ACCESS"
	case RiskModerate:
		return "MODERATE HAZARD REGISTERED - PROTECTIVE EQUIPMENT MANDATORY"
	default:
		return "LOW-LEVEL HAZARD REGISTERED - STANDARD PROTOCOL"
	}
}
