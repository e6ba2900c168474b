package render

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rickwengdev/claimform/internal/model"
	"github.com/rickwengdev/claimform/internal/rocdate"
)

// Exact mode assumes the standardized template's field-name contract: scalar
// text fields named after their dictionary keys, year/month/day triples for
// dates, <group>_<code> checkbox groups and a small set of binary pairs. A
// field missing from a given template instance is skipped, never fatal.

var clockRE = regexp.MustCompile(`([01]?\d|2[0-3]):([0-5]\d)`)

func fillExact(idx *fieldIndex, d Dict, rep *Report) {
	writeText(idx, rep, "name", d.Str("name"))
	writeText(idx, rep, "id_number", d.Str("id_number"))
	writeText(idx, rep, "address", d.Str("address"))
	writeText(idx, rep, "phone", d.Str("phone"))
	writeText(idx, rep, "email", d.Str("email"))
	writeText(idx, rep, "application_id", d.Str("application_id"))
	writeText(idx, rep, "injury_location", d.Str("injury_location"))
	writeText(idx, rep, "injury_cause", d.Str("injury_cause"))
	writeText(idx, rep, "work_content", d.Str("work_content"))
	writeText(idx, rep, "interruption_periods", d.Str("interruption_periods"))
	writeText(idx, rep, "bank_code", d.Str("bank_code"))
	writeText(idx, rep, "bank_branch", d.Str("bank_branch"))
	writeText(idx, rep, "bank_account", d.Str("bank_account"))

	zip1, zip2 := splitZip(d.Str("zip_code"))
	writeText(idx, rep, "zip_code_1", zip1)
	writeText(idx, rep, "zip_code_2", zip2)

	writeDateTriple(idx, rep, "birth", d.Str("birthday"))
	writeDateTriple(idx, rep, "injury_date", d.Str("injury_date"))
	writeDateTriple(idx, rep, "reinstatement_date", d.Str("reinstatement_date"))
	writeDateTriple(idx, rep, "interruption_start", d.Str("interruption_start_date"))
	writeDateTriple(idx, rep, "interruption_end", d.Str("interruption_end_date"))

	for _, group := range []string{
		"eligibility_criteria",
		"wound_category",
		"salary_status",
		"salary_type",
		"injury_type",
	} {
		code, _ := d.Code(group)
		writeCheckGroup(idx, rep, group, code, model.GroupSize(group))
	}

	reinstated, _ := d.Code("is_reinstated")
	writeCheckPair(idx, rep, "is_reinstated_yes", "is_reinstated_no", reinstated == 1)

	fillInjuryTime(idx, d.Str("injury_time"), rep)
}

// writeText sets a named text field, recording a skip when the template has
// no such field. Empty values are still written: a reused template may carry
// stale text that an explicit empty write clears.
func writeText(idx *fieldIndex, rep *Report, name, value string) {
	h, ok := idx.textField(name)
	if !ok {
		rep.skipped(name, "no such text field")
		return
	}
	h.setText(value)
	rep.filled(name)
}

// writeDateTriple splits an ISO date into the form's ROC year/month/day
// sub-fields <base>_year, <base>_month, <base>_day.
func writeDateTriple(idx *fieldIndex, rep *Report, base, iso string) {
	roc := rocdate.Format(iso)
	writeText(idx, rep, base+"_year", roc.Year)
	writeText(idx, rep, base+"_month", roc.Month)
	writeText(idx, rep, base+"_day", roc.Day)
}

// writeCheckGroup drives a single-select checkbox group <group>_0..N-1:
// exactly the stored code's box ends up checked and every sibling is
// explicitly unchecked. An out-of-range code unchecks the whole group.
func writeCheckGroup(idx *fieldIndex, rep *Report, group string, code, size int) {
	for i := 0; i < size; i++ {
		name := fmt.Sprintf("%s_%d", group, i)
		h, ok := idx.checkBox(name)
		if !ok {
			rep.skipped(name, "no such checkbox")
			continue
		}
		h.setCheckBox(i == code)
		rep.filled(name)
	}
}

// writeCheckPair resolves a yes/no checkbox pair, unchecking the loser.
func writeCheckPair(idx *fieldIndex, rep *Report, yesName, noName string, yes bool) {
	for _, c := range []struct {
		name string
		on   bool
	}{{yesName, yes}, {noName, !yes}} {
		h, ok := idx.checkBox(c.name)
		if !ok {
			rep.skipped(c.name, "no such checkbox")
			continue
		}
		h.setCheckBox(c.on)
		rep.filled(c.name)
	}
}

// fillInjuryTime parses the free-text time value. The hour/minute fields are
// written only when an HH:MM pattern is present; the morning/afternoon pair
// resolves from localized tokens first, then from the parsed hour.
func fillInjuryTime(idx *fieldIndex, raw string, rep *Report) {
	m := clockRE.FindStringSubmatch(raw)
	if m != nil {
		writeText(idx, rep, "injury_time_hour", m[1])
		writeText(idx, rep, "injury_time_minute", m[2])
	}

	switch {
	case strings.Contains(raw, "上午") || strings.Contains(strings.ToLower(raw), "am"):
		writeCheckPair(idx, rep, "injury_time_morning", "injury_time_afternoon", true)
	case strings.Contains(raw, "下午") || strings.Contains(strings.ToLower(raw), "pm"):
		writeCheckPair(idx, rep, "injury_time_morning", "injury_time_afternoon", false)
	case m != nil:
		hour, _ := strconv.Atoi(m[1])
		writeCheckPair(idx, rep, "injury_time_morning", "injury_time_afternoon", hour < 12)
	default:
		rep.skipped("injury_time_morning", "time of day undetermined")
		rep.skipped("injury_time_afternoon", "time of day undetermined")
	}
}

// splitZip splits a postal code at the 3/2 boundary of the five-digit
// convention. A three-digit code fills only the first part.
func splitZip(zip string) (string, string) {
	if len(zip) <= 3 {
		return zip, ""
	}
	return zip[:3], zip[3:]
}

var trailingIndexRE = regexp.MustCompile(`_(\d+)$`)

// fillGuess handles templates with unknown field names: every discovered
// field is mapped through the inference rules. Unmatched fields stay blank.
// Checkboxes only participate when their name carries a trailing group index
// that can be compared against a categorical code.
func fillGuess(idx *fieldIndex, d Dict, rep *Report) {
	names := make([]string, 0, len(idx.byName))
	for name := range idx.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		h := idx.byName[name]
		key := inferKey(name)
		if key == "" {
			rep.skipped(name, "no matching rule")
			continue
		}

		switch h.kind {
		case fieldText:
			value := displayValue(d, key)
			if key == "zip_code" {
				// The split convention applies whatever the template calls
				// its two postal sub-fields.
				if m := trailingIndexRE.FindStringSubmatch(name); m != nil {
					z1, z2 := splitZip(d.Str("zip_code"))
					if m[1] == "1" {
						value = z1
					} else {
						value = z2
					}
				}
			}
			h.setText(value)
			rep.filled(name)
		case fieldCheckBox:
			code, isCode := d.Code(key)
			m := trailingIndexRE.FindStringSubmatch(name)
			if !isCode || m == nil {
				rep.skipped(name, "checkbox without comparable code")
				continue
			}
			i, _ := strconv.Atoi(m[1])
			h.setCheckBox(i == code)
			rep.filled(name)
		default:
			rep.skipped(name, "unsupported field type")
		}
	}
}

// displayValue renders a dictionary entry for a single text field: dates in
// ROC slash form, categorical codes as their decimal value, everything else
// verbatim.
func displayValue(d Dict, key string) string {
	switch key {
	case "birthday", "injury_date", "reinstatement_date",
		"interruption_start_date", "interruption_end_date":
		return rocdate.Format(d.Str(key)).Slash()
	}
	if code, ok := d.Code(key); ok {
		return strconv.Itoa(code)
	}
	return d.Str(key)
}
