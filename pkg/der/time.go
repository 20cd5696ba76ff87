package der

import (
	"fmt"
	"time"
)

const (
	utcTimeLayout         = "060102150405Z"
	generalizedTimeLayout = "20060102150405Z"
)

// FormatUTCTime returns the UTCTime content octets for t in Zulu form.
// UTCTime only covers the years 1950 through 2049 (RFC 5280 §4.1.2.5.1).
// Fractional seconds are dropped.
func FormatUTCTime(t time.Time) ([]byte, error) {
	t = t.UTC()
	if y := t.Year(); y < 1950 || y > 2049 {
		return nil, fmt.Errorf("%w: year %d outside UTCTime range 1950-2049", ErrInvalidTime, y)
	}
	return []byte(t.Format(utcTimeLayout)), nil
}

// FormatGeneralizedTime returns the GeneralizedTime content octets for t in
// Zulu form with whole seconds.
func FormatGeneralizedTime(t time.Time) ([]byte, error) {
	t = t.UTC()
	if y := t.Year(); y < 0 || y > 9999 {
		return nil, fmt.Errorf("%w: year %d outside GeneralizedTime range", ErrInvalidTime, y)
	}
	return []byte(t.Format(generalizedTimeLayout)), nil
}
