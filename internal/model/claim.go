// Package model defines the claim-package entities handed to the renderer by
// the persistence layer: the applicant's account record, the injury claim
// itself and its interruption periods.
package model

// Applicant is the account-level identity record. A claim references exactly
// one applicant and may override individual identity fields for display.
type Applicant struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	IDNumber string `json:"id_number"`
	Birthday string `json:"birthday"` // ISO-8601
	Address  string `json:"address"`
	ZipCode  string `json:"zip_code"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// Claim is a single injury/compensation request. Categorical fields hold
// small integer codes; -1 marks an unset code so that zero-valued codes stay
// distinguishable from missing ones. Claim-level identity fields, when
// non-empty, take precedence over the applicant record at render time.
type Claim struct {
	ID     int64 `json:"application_id"`
	UserID int64 `json:"user_id"`

	// Identity overrides.
	ApplicantName     string `json:"applicant_name,omitempty"`
	ApplicantIDNumber string `json:"applicant_id_number,omitempty"`
	ApplicantBirthday string `json:"applicant_birthday,omitempty"`
	ApplicantAddress  string `json:"applicant_address,omitempty"`
	ApplicantZipCode  string `json:"applicant_zip_code,omitempty"`
	ApplicantPhone    string `json:"applicant_phone,omitempty"`

	// Categorical codes.
	EligibilityCriteria EligibilityCriteria `json:"eligibility_criteria"`
	WoundCategory       WoundCategory       `json:"wound_category"`
	SalaryStatus        SalaryStatus        `json:"salary_status"`
	SalaryType          SalaryType          `json:"salary_type"`
	InjuryType          InjuryType          `json:"injury_type"`

	// Injury narrative.
	WorkContent    string `json:"work_content"`
	InjuryDate     string `json:"injury_date"` // ISO-8601
	InjuryTime     string `json:"injury_time"` // free text, usually "HH:MM" or "上午/下午 HH:MM"
	InjuryLocation string `json:"injury_location"`
	InjuryCause    string `json:"injury_cause"`

	// Reinstatement.
	IsReinstated      int    `json:"is_reinstated"` // 0 = no, 1 = yes
	ReinstatementDate string `json:"reinstatement_date,omitempty"`

	// Legacy single interruption pair, kept for claims recorded before the
	// interruption_periods table existed.
	InterruptionStartDate string `json:"interruption_start_date,omitempty"`
	InterruptionEndDate   string `json:"interruption_end_date,omitempty"`

	// Banking.
	BankCode    string `json:"bank_code,omitempty"`
	BankBranch  string `json:"bank_branch,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
}

// InterruptionPeriod is one span of work stoppage tied to a claim. Periods
// are stored and rendered in chronological order.
type InterruptionPeriod struct {
	StartDate string `json:"start_date"` // ISO-8601
	EndDate   string `json:"end_date"`   // ISO-8601
}

// ClaimPackage is the bundle the persistence layer assembles for one render:
// the claim, its owning applicant and the claim's interruption periods.
type ClaimPackage struct {
	Application         Claim                `json:"application"`
	User                Applicant            `json:"user"`
	InterruptionPeriods []InterruptionPeriod `json:"interruption_periods"`
}
