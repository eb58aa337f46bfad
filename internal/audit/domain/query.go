package domain

import (
	"fmt"
	"time"

	"github.com/jellydator/validation"
)

// Accepted layouts for the verify command's date range flags.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// VerifyRange is the date range a verification pass covers, as received from
// the CLI. Dates are kept as strings until Validate has run so error messages
// can echo the raw input back.
type VerifyRange struct {
	StartDate string
	EndDate   string
}

// Validate checks both dates are present and parseable.
func (r VerifyRange) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StartDate, validation.Required, validation.By(validDate)),
		validation.Field(&r.EndDate, validation.Required, validation.By(validDate)),
	)
}

// Times parses the range into UTC timestamps. A date without a time component
// covers from midnight (start) through end-of-day (end).
func (r VerifyRange) Times() (start, end time.Time, err error) {
	if err := r.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	start, _, err = parseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, endDateOnly, err := parseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endDateOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %q is before start date %q", r.EndDate, r.StartDate)
	}
	return start, end, nil
}

func parseDate(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.ParseInLocation(dateTimeLayout, s, time.UTC); err == nil {
		return t, false, nil
	}
	if t, err = time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)", s)
}

func validDate(value interface{}) error {
	s, _ := value.(string)
	_, _, err := parseDate(s)
	return err
}
