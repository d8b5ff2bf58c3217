package hazard

import (
	"strings"
	"unicode/utf8"

	"danger-zone/internal/apperr"
)

// Draft holds the caller-proposed fields of a new record.
type Draft struct {
	Title       string
	Description string
	RiskLevel   RiskLevel
	Category    Category
	Location    string
	// ConsequenceRating is nil when the caller omitted it.
	ConsequenceRating *int

	ProtectiveEquipment   []string
	ContainmentProcedures []string
}

// Validate applies the field rules in order; the first failure wins.
func Validate(d Draft) error {
	if textLen(d.Title) < minTitleLength {
		return apperr.ValidationFailed("title", "hazard title must contain at least 3 characters")
	}
	if !d.RiskLevel.Valid() {
		return apperr.ValidationFailed("riskLevel", "invalid risk level")
	}
	if !d.Category.Valid() {
		return apperr.ValidationFailed("category", "invalid hazard category")
	}
	if d.RiskLevel == RiskExtreme && textLen(d.Location) < minExtremeLocationLength {
		return apperr.ValidationFailed("location", "extreme hazards require a detailed location")
	}
	if d.ConsequenceRating != nil {
		if r := *d.ConsequenceRating; r < MinConsequenceRating || r > MaxConsequenceRating {
			return apperr.ValidationFailed("consequenceRating", "consequence rating must be between 1 and 10")
		}
	}
	return nil
}

// textLen counts characters, not bytes, after trimming.
func textLen(s string) int { return utf8.RuneCountInString(strings.TrimSpace(s)) }

// CheckConsistency enforces cross-field rules that are not a single field's fault.
func CheckConsistency(risk RiskLevel, rating int) error {
	if risk == RiskExtreme && rating < MinExtremeConsequence {
		return apperr.DataInconsistency("data inconsistency: extreme hazards must have a consequence rating of 7-10")
	}
	return nil
}
