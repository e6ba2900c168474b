package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferKey(t *testing.T) {
	tests := []struct {
		fieldName string
		want      string
	}{
		{"Applicant_Name", "name"},
		{"fullname", "name"},
		{"ID_Number", "id_number"},
		{"ContactPhone", "phone"},
		{"date_of_birth", "birthday"},
		{"HomeAddress", "address"},
		{"ZIP_code_1", "zip_code"},
		{"postal", "zip_code"},
		{"claim_id", "application_id"},
		{"eligibility_criteria_2", "eligibility_criteria"},
		{"wound_cat", "wound_category"},
		{"injury_date_field", "injury_date"},
		{"injury_time", "injury_time"},
		{"accident_location", "injury_location"},
		{"injury_cause", "injury_cause"},
		{"reinstatement", "reinstated_text"},
		{"salary_status", "salary_status"},
		{"salary_type", "salary_type"},
		{"injury_type_0", "injury_type"},
		{"work_content", "work_content"},
		{"interruption_period_1", "interruption_periods"},
		// No rule matches: the field stays blank rather than guessing wrong.
		{"some_totally_unknown_field", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.fieldName, func(t *testing.T) {
			assert.Equal(t, tt.want, inferKey(tt.fieldName))
		})
	}
}

func TestInferIdentityRulesPrecedeClaimRules(t *testing.T) {
	// A name that could match several groups resolves to the earliest rule.
	assert.Equal(t, "name", inferKey("applicant_name_and_case"))
}
