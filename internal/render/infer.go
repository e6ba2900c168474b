package render

import "strings"

// Guess mode: templates whose field names follow no known contract get each
// discovered name tested against an ordered keyword-rule list. The first
// matching rule decides the dictionary key; no match leaves the field blank.
// The ordering matters - identity rules run before claim rules so that e.g.
// "applicant_name" resolves to the name, not to the application id.

type inferRule struct {
	keywords []string
	key      string
}

func (r inferRule) matches(name string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

var inferRules = []inferRule{
	// Applicant identity and contact.
	{[]string{"name", "姓名"}, "name"},
	{[]string{"id_number", "idnumber", "national_id", "身分證"}, "id_number"},
	{[]string{"phone", "tel", "電話"}, "phone"},
	{[]string{"birth", "dob", "出生"}, "birthday"},
	{[]string{"address", "addr", "地址"}, "address"},
	{[]string{"zip", "postal", "郵遞"}, "zip_code"},

	// Claim fields.
	{[]string{"application_id", "claim_id", "case", "申請編號"}, "application_id"},
	{[]string{"eligibility", "criteria", "資格"}, "eligibility_criteria"},
	{[]string{"wound", "傷病分類"}, "wound_category"},
	{[]string{"injury_date", "accident_date", "事故日期"}, "injury_date"},
	{[]string{"injury_time", "accident_time", "事故時間"}, "injury_time"},
	{[]string{"location", "place", "地點"}, "injury_location"},
	{[]string{"cause", "reason", "原因"}, "injury_cause"},
	{[]string{"reinstate", "return_to_work", "復工"}, "reinstated_text"},
	{[]string{"salary_status", "salary_continu", "薪資是否"}, "salary_status"},
	{[]string{"salary_type", "wage", "薪資類別"}, "salary_type"},
	{[]string{"injury_type", "災害類型"}, "injury_type"},
	{[]string{"work_content", "job", "duty", "工作內容"}, "work_content"},
	{[]string{"interruption", "stoppage", "period", "不能工作"}, "interruption_periods"},
}

// inferKey maps an arbitrary template field name to a dictionary key, or ""
// when the name matches no rule. Best effort by design: a blank field is
// preferred over a wrong value in the wrong field.
func inferKey(fieldName string) string {
	name := strings.ToLower(fieldName)
	for _, r := range inferRules {
		if r.matches(name) {
			return r.key
		}
	}
	return ""
}
