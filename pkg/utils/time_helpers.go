package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
)

var thaiShortMonths = [12]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

// FormatThaiShortDate renders t as "2 มิ.ย. 2567" (Buddhist era year).
// A nil time renders as an empty string.
func FormatThaiShortDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), thaiShortMonths[t.Month()-1], t.Year()+543)
}

const DateLayout = "2006-01-02"

// ParseNullDate reads "YYYY-MM-DD", ignoring any time part. Null and blank
// values are nil.
func ParseNullDate(s null.String) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	raw := strings.TrimSpace(s.String)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	if len(raw) < len(DateLayout) {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	t, err := time.Parse(DateLayout, raw[:len(DateLayout)])
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return &t, nil
}

// FormatDate renders a date column back to "YYYY-MM-DD"; nil stays nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
