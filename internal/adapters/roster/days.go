package roster

import (
	"fmt"
	"regexp"
	"strings"

	"student-transport-service/internal/domain"
)

// Accepted spellings for each canonical day token. Roster files arrive
// from spreadsheets, so common abbreviations are normalized here rather
// than rejected.
var dayAliases = map[string]domain.Weekday{
	"mon":       domain.Monday,
	"monday":    domain.Monday,
	"tue":       domain.Tuesday,
	"tues":      domain.Tuesday,
	"tuesday":   domain.Tuesday,
	"wed":       domain.Wednesday,
	"wednesday": domain.Wednesday,
	"thu":       domain.Thursday,
	"thur":      domain.Thursday,
	"thurs":     domain.Thursday,
	"thursday":  domain.Thursday,
	"fri":       domain.Friday,
	"friday":    domain.Friday,
	"sat":       domain.Saturday,
	"saturday":  domain.Saturday,
	"sun":       domain.Sunday,
	"sunday":    domain.Sunday,
}

// Ranges may be written with an ASCII dash or an en dash ("Mon-Fri",
// "Mon–Fri").
var dayRange = regexp.MustCompile(`^\s*([A-Za-z]+)\s*[–-]\s*([A-Za-z]+)\s*$`)

var nonWord = regexp.MustCompile(`[^\w]`)

// NormalizeDay maps one free-form day spelling onto the canonical token.
func NormalizeDay(token string) (domain.Weekday, error) {
	t := nonWord.ReplaceAllString(strings.ToLower(strings.TrimSpace(token)), "")
	if t == "" {
		return "", fmt.Errorf("normalize day: empty day token")
	}
	d, ok := dayAliases[t]
	if !ok {
		return "", fmt.Errorf("normalize day: unknown day token %q", token)
	}
	return d, nil
}

// ParseDays expands a schedule expression into canonical weekdays in week
// order, deduplicated. Accepts comma-separated tokens ("Mon,Wed,Fri") and
// day ranges ("Mon-Fri" expands to Mon through Fri).
func ParseDays(s string) ([]domain.Weekday, error) {
	expr := strings.TrimSpace(s)
	if expr == "" {
		return nil, fmt.Errorf("parse days: days is empty")
	}

	if m := dayRange.FindStringSubmatch(expr); m != nil {
		from, err := NormalizeDay(m[1])
		if err != nil {
			return nil, fmt.Errorf("parse days %q: %w", s, err)
		}
		to, err := NormalizeDay(m[2])
		if err != nil {
			return nil, fmt.Errorf("parse days %q: %w", s, err)
		}
		if from.Order() > to.Order() {
			return nil, fmt.Errorf("parse days %q: range start after end", s)
		}

		var days []domain.Weekday
		for _, d := range domain.Weekdays() {
			if d.Order() >= from.Order() && d.Order() <= to.Order() {
				days = append(days, d)
			}
		}
		return days, nil
	}

	seen := make(map[domain.Weekday]bool)
	var days []domain.Weekday
	for _, token := range strings.Split(expr, ",") {
		if strings.TrimSpace(token) == "" {
			continue
		}
		d, err := NormalizeDay(token)
		if err != nil {
			return nil, fmt.Errorf("parse days %q: %w", s, err)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("parse days %q: no day tokens", s)
	}

	// Week order regardless of how the source listed them.
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j-1].Order() > days[j].Order(); j-- {
			days[j-1], days[j] = days[j], days[j-1]
		}
	}
	return days, nil
}

// FormatDays renders weekdays as the canonical comma-separated form used
// in roster files and database rows.
func FormatDays(days []domain.Weekday) string {
	tokens := make([]string, len(days))
	for i, d := range days {
		tokens[i] = string(d)
	}
	return strings.Join(tokens, ",")
}
