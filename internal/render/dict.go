package render

import (
	"strconv"
	"strings"

	"github.com/rickwengdev/claimform/internal/model"
	"github.com/rickwengdev/claimform/internal/rocdate"
)

// Dict is the flat render-time dictionary synthesized from one claim
// package. Values are either strings (display text) or ints (categorical
// codes); it lives only for the duration of a single render call.
type Dict map[string]any

// Str returns the string value for key, or "" when the key is absent or not
// a string.
func (d Dict) Str(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Code returns the integer code for key. The second return is false when the
// key is absent or holds a non-integer.
func (d Dict) Code(key string) (int, bool) {
	v, ok := d[key].(int)
	return v, ok
}

const (
	reinstatedYes = "是"
	reinstatedNo  = "否"
)

// BuildDict flattens applicant, claim and interruption periods into one
// dictionary. Claim-level identity overrides win over the account record;
// missing source fields become empty strings, never "null".
func BuildDict(pkg model.ClaimPackage) Dict {
	app := pkg.Application
	user := pkg.User

	d := Dict{
		"application_id": formatID(app.ID),
		"name":           firstNonEmpty(app.ApplicantName, user.Name),
		"id_number":      firstNonEmpty(app.ApplicantIDNumber, user.IDNumber),
		"birthday":       firstNonEmpty(app.ApplicantBirthday, user.Birthday),
		"address":        firstNonEmpty(app.ApplicantAddress, user.Address),
		"zip_code":       firstNonEmpty(app.ApplicantZipCode, user.ZipCode),
		"phone":          firstNonEmpty(app.ApplicantPhone, user.Phone),
		"email":          user.Email,

		"eligibility_criteria": int(app.EligibilityCriteria),
		"wound_category":       int(app.WoundCategory),
		"salary_status":        int(app.SalaryStatus),
		"salary_type":          int(app.SalaryType),
		"injury_type":          int(app.InjuryType),

		"work_content":    app.WorkContent,
		"injury_date":     app.InjuryDate,
		"injury_time":     app.InjuryTime,
		"injury_location": app.InjuryLocation,
		"injury_cause":    app.InjuryCause,

		"is_reinstated":      app.IsReinstated,
		"reinstatement_date": app.ReinstatementDate,

		"bank_code":    app.BankCode,
		"bank_branch":  app.BankBranch,
		"bank_account": app.BankAccount,
	}

	if app.IsReinstated == 1 {
		d["reinstated_text"] = reinstatedYes
	} else {
		d["reinstated_text"] = reinstatedNo
	}

	periods := pkg.InterruptionPeriods
	if len(periods) == 0 && (app.InterruptionStartDate != "" || app.InterruptionEndDate != "") {
		periods = []model.InterruptionPeriod{{
			StartDate: app.InterruptionStartDate,
			EndDate:   app.InterruptionEndDate,
		}}
	}
	d["interruption_periods"] = formatPeriods(periods)
	if len(periods) > 0 {
		d["interruption_start_date"] = periods[0].StartDate
		d["interruption_end_date"] = periods[0].EndDate
	} else {
		d["interruption_start_date"] = ""
		d["interruption_end_date"] = ""
	}

	return d
}

// formatPeriods renders the interruption list one "start ~ end" ROC range
// per line. Periods that format to nothing on both ends are dropped.
func formatPeriods(periods []model.InterruptionPeriod) string {
	lines := make([]string, 0, len(periods))
	for _, p := range periods {
		if line := rocdate.FormatRange(p.StartDate, p.EndDate); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
