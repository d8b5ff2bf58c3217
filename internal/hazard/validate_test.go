package hazard

import (
	"errors"
	"testing"

	"danger-zone/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func validDraft() Draft {
	return Draft{
		Title:             "Acid spill",
		RiskLevel:         RiskHigh,
		Category:          CategoryChemical,
		Location:          "Lab 3",
		ConsequenceRating: intPtr(6),
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var e *apperr.Error
	require.True(t, errors.As(err, &e), "expected *apperr.Error, got %v", err)
	require.Equal(t, apperr.KindValidationFailed, e.Kind)
	return e.Field
}

func TestValidate_FirstFailureWins(t *testing.T) {
	d := Draft{Title: " a ", RiskLevel: "nope", Category: "nope"}
	assert.Equal(t, "title", fieldOf(t, Validate(d)))

	for _, short := range []string{"éé", "危险", " ñ  "} {
		d.Title = short
		assert.Equal(t, "title", fieldOf(t, Validate(d)), short)
	}

	d.Title = "Gas"
	assert.Equal(t, "riskLevel", fieldOf(t, Validate(d)))

	d.RiskLevel = RiskExtreme
	assert.Equal(t, "category", fieldOf(t, Validate(d)))

	d.Category = CategoryRadiation
	d.Location = " Lab "
	assert.Equal(t, "location", fieldOf(t, Validate(d)))

	d.Location = "Salã"
	assert.Equal(t, "location", fieldOf(t, Validate(d)), "4 characters, 5 bytes")

	d.Location = "Reactor hall"
	d.ConsequenceRating = intPtr(11)
	assert.Equal(t, "consequenceRating", fieldOf(t, Validate(d)))

	d.ConsequenceRating = intPtr(9)
	assert.NoError(t, Validate(d))
}

func TestValidate_LocationOptionalBelowExtreme(t *testing.T) {
	d := validDraft()
	d.Location = ""
	assert.NoError(t, Validate(d))

	d.ConsequenceRating = nil
	assert.NoError(t, Validate(d))
}

func TestValidate_CountsCharacters(t *testing.T) {
	d := validDraft()
	d.Title = "危险品"
	assert.NoError(t, Validate(d))

	d.RiskLevel = RiskExtreme
	d.Location = "Área 5"
	assert.NoError(t, Validate(d))
}

func TestCheckConsistency(t *testing.T) {
	assert.ErrorIs(t, CheckConsistency(RiskExtreme, 6), apperr.ErrDataInconsistency)
	assert.NoError(t, CheckConsistency(RiskExtreme, 7))
	assert.NoError(t, CheckConsistency(RiskHigh, 1))
}
