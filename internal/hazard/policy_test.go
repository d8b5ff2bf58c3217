package hazard

import (
	"errors"
	"testing"

	"danger-zone/internal/apperr"
	"danger-zone/internal/clearance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize_ThresholdTable(t *testing.T) {
	cases := []struct {
		op       Operation
		risk     RiskLevel
		required int
	}{
		{OpRead, "", 1},
		{OpRead, RiskHigh, 1},
		{OpRead, RiskExtreme, 2},
		{OpStats, "", 2},
		{OpAuditLog, "", 5},
		{OpCreate, RiskLow, 2},
		{OpCreate, RiskExtreme, 3},
		{OpUpdateStatus, "", 3},
		{OpUpdateStatus, RiskExtreme, 3},
		{OpInspect, "", 2},
		{OpDelete, RiskModerate, 4},
		{OpDelete, RiskExtreme, 5},
	}

	for _, tc := range cases {
		for l := 1; l <= 7; l++ {
			err := Authorize(tc.op, clearance.Level(l), tc.risk)
			if l >= tc.required {
				assert.NoError(t, err, "op=%s risk=%s level=%d", tc.op, tc.risk, l)
				continue
			}
			var e *apperr.Error
			require.True(t, errors.As(err, &e), "op=%s risk=%s level=%d", tc.op, tc.risk, l)
			assert.Equal(t, apperr.KindInsufficientClearance, e.Kind)
			assert.Equal(t, tc.required, e.Required)
			assert.Equal(t, l, e.Provided)
		}
	}
}

func TestAuthorize_MissingCredential(t *testing.T) {
	for _, op := range []Operation{OpRead, OpStats, OpAuditLog, OpCreate, OpUpdateStatus, OpInspect, OpDelete} {
		err := Authorize(op, clearance.None, "")
		assert.ErrorIs(t, err, apperr.ErrMissingCredential, string(op))
	}
}

func TestAuthorize_UnknownOperationDenied(t *testing.T) {
	err := Authorize(Operation("launch"), 99, "")
	assert.ErrorIs(t, err, apperr.ErrInsufficientClearance)
}
