package attendance

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MonthAmounts maps a month key to a decimal number of days.
type MonthAmounts map[MonthKey]decimal.Decimal

// Adjustments holds bonus or penalty days: branch id -> month key -> amount.
type Adjustments map[string]MonthAmounts

// Get returns the amount for one branch and month, zero when missing.
func (a Adjustments) Get(branchID string, key MonthKey) decimal.Decimal {
	if v, ok := a[branchID][key]; ok {
		return v
	}
	return decimal.Zero
}

// Sum adds the amounts of the given branches for one month.
func (a Adjustments) Sum(branchIDs []string, key MonthKey) decimal.Decimal {
	total := decimal.Zero
	for _, id := range branchIDs {
		total = total.Add(a.Get(id, key))
	}
	return total
}

// Add applies a signed change and clamps the result at zero.
// It returns the stored value. The receiver must be non-nil.
func (a Adjustments) Add(branchID string, key MonthKey, amount decimal.Decimal) decimal.Decimal {
	next := decimal.Max(decimal.Zero, a.Get(branchID, key).Add(amount))
	months, ok := a[branchID]
	if !ok {
		months = make(MonthAmounts)
		a[branchID] = months
	}
	months[key] = next
	return next
}

// Prune removes every month strictly before cutoff.
func (a Adjustments) Prune(cutoff MonthKey) int {
	removed := 0
	for branchID, months := range a {
		for key := range months {
			if key.Before(cutoff) {
				delete(months, key)
				removed++
			}
		}
		if len(months) == 0 {
			delete(a, branchID)
		}
	}
	return removed
}

// UnmarshalJSON ignores non-numeric amounts.
func (m *MonthAmounts) UnmarshalJSON(data []byte) error {
	var raw map[MonthKey]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(MonthAmounts, len(raw))
	for k, v := range raw {
		if value, ok := parseNumber(v); ok {
			out[k] = value
		}
	}
	*m = out
	return nil
}

func (m MonthAmounts) MarshalJSON() ([]byte, error) {
	out := make(map[MonthKey]json.Number, len(m))
	for k, v := range m {
		out[k] = json.Number(v.String())
	}
	return json.Marshal(out)
}
