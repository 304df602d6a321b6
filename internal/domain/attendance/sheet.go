package attendance

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// DayValues maps a 1-based day of the month to an attendance value.
// Values are usually 0 or 1, fractions such as 0.25 or 0.5 are summed as-is.
type DayValues map[int]decimal.Decimal

// Sheet is the day-level attendance of one employee:
// branch id -> month key -> day -> value.
type Sheet map[string]map[MonthKey]DayValues

// Total sums the day values recorded for one branch and month.
func (s Sheet) Total(branchID string, key MonthKey) decimal.Decimal {
	total := decimal.Zero
	for _, v := range s[branchID][key] {
		total = total.Add(v)
	}
	return total
}

// Days returns the recorded values for one branch and month, never nil.
func (s Sheet) Days(branchID string, key MonthKey) DayValues {
	days := s[branchID][key]
	if days == nil {
		return DayValues{}
	}
	return days
}

// BranchIDs lists every branch that has attendance recorded, sorted.
func (s Sheet) BranchIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Set records a day value, creating the nested levels as needed.
// The receiver must be non-nil.
func (s Sheet) Set(branchID string, key MonthKey, day int, value decimal.Decimal) {
	months, ok := s[branchID]
	if !ok {
		months = make(map[MonthKey]DayValues)
		s[branchID] = months
	}
	days, ok := months[key]
	if !ok {
		days = make(DayValues)
		months[key] = days
	}
	days[day] = value
}

// Prune removes every month strictly before cutoff and returns how many
// branch/month entries were dropped.
func (s Sheet) Prune(cutoff MonthKey) int {
	removed := 0
	for branchID, months := range s {
		for key := range months {
			if key.Before(cutoff) {
				delete(months, key)
				removed++
			}
		}
		if len(months) == 0 {
			delete(s, branchID)
		}
	}
	return removed
}

// UnmarshalJSON ignores non-numeric values and non-integer day keys.
func (d *DayValues) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(DayValues, len(raw))
	for k, v := range raw {
		day, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		value, ok := parseNumber(v)
		if !ok {
			continue
		}
		out[day] = value
	}
	*d = out
	return nil
}

func (d DayValues) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.Number, len(d))
	for day, v := range d {
		out[strconv.Itoa(day)] = json.Number(v.String())
	}
	return json.Marshal(out)
}

// parseNumber accepts JSON numbers only. Strings, booleans, null and
// nested values are reported as not numeric.
func parseNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero, false
	}
	c := raw[0]
	if c != '-' && (c < '0' || c > '9') {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
