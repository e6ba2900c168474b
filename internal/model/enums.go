package model

// The categorical claim fields are small closed integer enums mirroring the
// checkbox groups on the government form. The renderer treats out-of-range
// codes as "no box checked" rather than failing.

// EligibilityCriteria identifies which insured category the applicant claims
// under.
type EligibilityCriteria int

const (
	EligibilityEmployed EligibilityCriteria = iota
	EligibilityOccupationalUnion
	EligibilitySelfEmployed
	EligibilityVoluntary

	eligibilityCount
)

// WoundCategory distinguishes ordinary injury from occupational disease.
type WoundCategory int

const (
	WoundInjury WoundCategory = iota
	WoundOccupationalDisease

	woundCategoryCount
)

// SalaryStatus records whether pay continued during the work stoppage.
type SalaryStatus int

const (
	SalaryStopped SalaryStatus = iota
	SalaryPartial
	SalaryContinued

	salaryStatusCount
)

// SalaryType is the wage basis used for benefit calculation.
type SalaryType int

const (
	SalaryMonthly SalaryType = iota
	SalaryDaily
	SalaryPiecework

	salaryTypeCount
)

// InjuryType locates the incident relative to the job.
type InjuryType int

const (
	InjuryAtWork InjuryType = iota
	InjuryCommuting
	InjuryBusinessTrip

	injuryTypeCount
)

// GroupSize returns the number of checkboxes in the named enum group, or 0
// for an unknown group name. Group names match the form's field-name prefixes.
func GroupSize(group string) int {
	switch group {
	case "eligibility_criteria":
		return int(eligibilityCount)
	case "wound_category":
		return int(woundCategoryCount)
	case "salary_status":
		return int(salaryStatusCount)
	case "salary_type":
		return int(salaryTypeCount)
	case "injury_type":
		return int(injuryTypeCount)
	}
	return 0
}
