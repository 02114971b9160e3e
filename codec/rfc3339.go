package codec

import (
	"time"

	dynaprop "github.com/reoring/dynaprop"
)

// TimeRFC3339 returns a Codec between RFC3339 strings (stored) and
// time.Time (domain). Encoding normalizes to UTC RFC3339Nano.
func TimeRFC3339() Codec[string, time.Time] { return rfc3339Codec{} }

type rfc3339Codec struct{}

func (rfc3339Codec) Decode(w string) (time.Time, error) {
	t, err := parseRFC3339(w)
	if err != nil {
		it := dynaprop.IssueAt("", dynaprop.CodeTypeMismatch, "invalid RFC3339 time", map[string]any{"got": w})
		it.Cause = err
		return time.Time{}, dynaprop.Issues{it}
	}
	return t, nil
}

func (rfc3339Codec) Encode(d time.Time) (string, error) {
	return formatRFC3339Canonical(d), nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional).
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC; RFC3339Nano trims trailing zeros.
	return t.UTC().Format(time.RFC3339Nano)
}
