package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupSize(t *testing.T) {
	assert.Equal(t, 4, GroupSize("eligibility_criteria"))
	assert.Equal(t, 2, GroupSize("wound_category"))
	assert.Equal(t, 3, GroupSize("salary_status"))
	assert.Equal(t, 3, GroupSize("salary_type"))
	assert.Equal(t, 3, GroupSize("injury_type"))
	assert.Equal(t, 0, GroupSize("unknown_group"))
}

func TestClaimPackageWireShape(t *testing.T) {
	// The persistence layer's wire shape: application + user + periods.
	payload := `{
		"application": {
			"application_id": 42,
			"user_id": 7,
			"eligibility_criteria": 1,
			"injury_date": "2025-01-10",
			"is_reinstated": 0,
			"bank_code": "822",
			"bank_account": "0001234567"
		},
		"user": {
			"user_id": 7,
			"name": "王小明",
			"id_number": "A123456789",
			"email": "ming@example.com"
		},
		"interruption_periods": [
			{"start_date": "2025-01-11", "end_date": "2025-01-31"}
		]
	}`

	var pkg ClaimPackage
	require.NoError(t, json.Unmarshal([]byte(payload), &pkg))

	assert.Equal(t, int64(42), pkg.Application.ID)
	assert.Equal(t, EligibilityOccupationalUnion, pkg.Application.EligibilityCriteria)
	assert.Equal(t, "822", pkg.Application.BankCode)
	assert.Equal(t, "王小明", pkg.User.Name)
	require.Len(t, pkg.InterruptionPeriods, 1)
	assert.Equal(t, "2025-01-11", pkg.InterruptionPeriods[0].StartDate)
}
