// Package format converts field values between their canonical wire form and
// the form operators type and read, and validates both.
//
// Formatters are total: bad input yields an empty string or the input itself.
// Validate is the only place a value is reported as wrong.
package format

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind selects the formatting and validation rule for a field.
type Kind string

const (
	KindText          Kind = "text"
	KindDate          Kind = "date"
	KindPhone         Kind = "phone"
	KindEmail         Kind = "email"
	KindAgreementCode Kind = "agreement-code"
	KindShortFreeform Kind = "short-freeform"
)

// DisplayDateLayout is the day-first date form used in the dashboard.
const DisplayDateLayout = "02.01.2006"

// CanonicalDateLayout is the ISO-8601 form sent to the remote API.
const CanonicalDateLayout = "2006-01-02T15:04:05Z"

const (
	minYear = 1800
	maxYear = 2099
)

var (
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])T(?:[01]\d|2[0-3]):[0-5]\d:[0-5]\d(?:\.\d{3})?Z$`)
	agreementPattern = regexp.MustCompile(`^\d+/\d+(?:-\d+)?$`)
	phonePattern     = regexp.MustCompile(`^\+?[\d\s\-()]{10,20}$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	canonicalDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}
)

// ToDisplay renders a canonical value for people.
func ToDisplay(canonical string, kind Kind) string {
	switch kind {
	case KindDate:
		return dateToDisplay(canonical)
	case KindPhone:
		return FormatPhone(canonical)
	default:
		return canonical
	}
}

// ToCanonical converts a display value back to its wire form.
func ToCanonical(display string, kind Kind) string {
	switch kind {
	case KindDate:
		return dateToCanonical(display)
	case KindPhone:
		return ParsePhoneToRaw(display)
	default:
		return strings.TrimSpace(display)
	}
}

// Validate reports whether value satisfies the rule for kind. Kinds without a
// rule accept anything.
func Validate(value string, kind Kind) bool {
	switch kind {
	case KindDate:
		return validDate(value)
	case KindPhone:
		return phonePattern.MatchString(value)
	case KindEmail:
		return emailPattern.MatchString(value)
	case KindAgreementCode:
		return agreementPattern.MatchString(value)
	case KindShortFreeform:
		words := len(strings.Fields(value))
		return words >= 1 && words <= 2
	default:
		return true
	}
}

// FormatPhone groups a phone number by digit count: 11 digits as
// +D DDD DDD DDDD, 10 as (DDD) DDD-DDDD, 7 as DDD-DDDD. Other lengths are
// returned unchanged.
func FormatPhone(phone string) string {
	digits := ParsePhoneToRaw(phone)
	switch len(digits) {
	case 11:
		return "+" + digits[:1] + " " + digits[1:4] + " " + digits[4:7] + " " + digits[7:]
	case 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case 7:
		return digits[:3] + "-" + digits[3:]
	default:
		return phone
	}
}

// FormatPhoneForDisplay groups digits as +D DDD DDD DD DD while the number is
// being typed, so partial input is grouped too.
func FormatPhoneForDisplay(phone string) string {
	digits := ParsePhoneToRaw(phone)
	if digits == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("+" + digits[:1])
	for _, group := range [][2]int{{1, 4}, {4, 7}, {7, 9}, {9, 11}} {
		if len(digits) <= group[0] {
			break
		}
		b.WriteString(" " + digits[group[0]:min(group[1], len(digits))])
	}
	return b.String()
}

// ParsePhoneToRaw strips everything but digits.
func ParsePhoneToRaw(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// FormatType turns a snake_case type tag into words: funeral_home becomes
// Funeral Home.
func FormatType(tag string) string {
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(tag, "_", " "))
}

// SplitComposite splits a "Firstname Lastname" field. Everything after the
// first word is the last name.
func SplitComposite(value string) (first, last string) {
	fields := strings.Fields(value)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// JoinComposite is the inverse of SplitComposite.
func JoinComposite(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func dateToDisplay(canonical string) string {
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return ""
	}
	for _, layout := range canonicalDateLayouts {
		if parsed, err := time.Parse(layout, canonical); err == nil {
			return parsed.UTC().Format(DisplayDateLayout)
		}
	}
	return ""
}

func dateToCanonical(display string) string {
	parts := strings.Split(strings.TrimSpace(display), ".")
	if len(parts) != 3 {
		return ""
	}
	values := make([]int, 3)
	for i, part := range parts {
		if part == "" || strings.IndexFunc(part, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
			return ""
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return ""
		}
		values[i] = n
	}
	day, month, year := values[0], values[1], values[2]
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return ""
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return ""
	}
	return date.Format(CanonicalDateLayout)
}

func validDate(value string) bool {
	match := isoDatePattern.FindStringSubmatch(value)
	if match == nil {
		return false
	}
	year, err := strconv.Atoi(match[1])
	if err != nil || year < minYear || year > maxYear {
		return false
	}
	_, err = time.Parse(time.RFC3339Nano, value)
	return err == nil
}
