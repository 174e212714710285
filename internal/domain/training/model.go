package training

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// SessionCount is the number of daily training sessions.
const SessionCount = 8

const (
	rangeLowBase  = 94
	rangeHighBase = 99
)

var (
	ErrInvalidTime  = errors.New("invalid training time")
	ErrInvalidBonus = errors.New("invalid training bonus")
)

var timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Bonuses maps a session time label to the bonus entered for it.
type Bonuses map[string]int

func DefaultTimes() []string {
	return []string{"23:10", "2:10", "5:10", "8:10", "11:10", "14:10", "17:10", "20:10"}
}

// NormalizeTimes trims and validates a full set of session labels.
func NormalizeTimes(times []string) ([]string, error) {
	if len(times) != SessionCount {
		return nil, fmt.Errorf("%w: expected %d times, got %d", ErrInvalidTime, SessionCount, len(times))
	}
	out := make([]string, len(times))
	for i, raw := range times {
		value := strings.TrimSpace(raw)
		if !timePattern.MatchString(value) {
			return nil, fmt.Errorf("%w: %q, use HH:MM", ErrInvalidTime, raw)
		}
		out[i] = value
	}
	return out, nil
}

// NormalizeBonuses keeps only labels present in times.
func NormalizeBonuses(times []string, bonuses Bonuses) (Bonuses, error) {
	known := make(map[string]struct{}, len(times))
	for _, t := range times {
		known[t] = struct{}{}
	}
	out := make(Bonuses, len(bonuses))
	for label, value := range bonuses {
		if _, ok := known[label]; !ok {
			return nil, fmt.Errorf("%w: unknown session %q", ErrInvalidBonus, label)
		}
		if value < 0 {
			return nil, fmt.Errorf("%w: bonus for %s must be >= 0", ErrInvalidBonus, label)
		}
		out[label] = value
	}
	return out, nil
}

// Summary is the expected training outcome range for the entered bonuses.
type Summary struct {
	Times     []string `json:"times"`
	Bonuses   Bonuses  `json:"bonuses"`
	Sum       int      `json:"sum"`
	RangeLow  int      `json:"rangeLow"`
	RangeHigh int      `json:"rangeHigh"`
}

func Summarize(times []string, bonuses Bonuses) Summary {
	sum := 0
	values := make(Bonuses, len(times))
	for _, t := range times {
		values[t] = bonuses[t]
		sum += bonuses[t]
	}
	return Summary{
		Times:     append([]string(nil), times...),
		Bonuses:   values,
		Sum:       sum,
		RangeLow:  rangeLowBase - sum,
		RangeHigh: rangeHighBase - sum,
	}
}

func (b Bonuses) Clone() Bonuses {
	if b == nil {
		return nil
	}
	out := make(Bonuses, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
