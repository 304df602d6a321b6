package attendance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fullMonth(days int, value string) DayValues {
	out := make(DayValues, days)
	for i := 1; i <= days; i++ {
		out[i] = d(value)
	}
	return out
}

func TestParseMonthKey(t *testing.T) {
	key, err := ParseMonthKey("2025-03")
	require.NoError(t, err)
	assert.Equal(t, 2025, key.Year())
	assert.Equal(t, 3, key.Month())
	assert.Equal(t, 31, key.DaysInMonth())

	for _, bad := range []string{"2025-3", "25-03", "2025-13", "2025-00", "2025/03", ""} {
		_, err := ParseMonthKey(bad)
		assert.ErrorIs(t, err, ErrInvalidMonthKey, bad)
	}
}

func TestMonthKey_Helpers(t *testing.T) {
	assert.Equal(t, MonthKey("2024-02"), NewMonthKey(2024, 2))
	assert.Equal(t, 29, NewMonthKey(2024, 2).DaysInMonth())
	assert.Equal(t, MonthKey("2025-11"), MonthKeyOf(time.Date(2025, 11, 30, 23, 0, 0, 0, time.UTC)))
	assert.True(t, MonthKey("2024-12").Before("2025-01"))
	assert.False(t, MonthKey("2025-01").Before("2025-01"))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), NewMonthKey(2024, 2).LastDay())
}

func TestAttendedDays_AllEqualsSumOfBranches(t *testing.T) {
	key := NewMonthKey(2025, 4)
	sheet := Sheet{
		"a-branch": {key: DayValues{1: d("1"), 2: d("0.5"), 3: d("0")}},
		"b-branch": {key: DayValues{1: d("0.25"), 5: d("1")}, "2025-03": DayValues{1: d("1")}},
	}

	sum := decimal.Zero
	for _, id := range sheet.BranchIDs() {
		sum = sum.Add(AttendedDays(sheet, branch.Only(id), key))
	}

	assert.True(t, d("2.75").Equal(AttendedDays(sheet, branch.All, key)))
	assert.True(t, sum.Equal(AttendedDays(sheet, branch.All, key)))
}

func TestAttendedDays_ZeroDefaults(t *testing.T) {
	key := NewMonthKey(2025, 4)

	assert.True(t, AttendedDays(nil, branch.All, key).IsZero())
	assert.True(t, AttendedDays(Sheet{}, branch.Only("x-branch"), key).IsZero())

	sheet := Sheet{"a-branch": {"2025-03": DayValues{1: d("1")}}}
	assert.True(t, AttendedDays(sheet, branch.Only("a-branch"), key).IsZero())
	assert.True(t, AttendedDays(sheet, branch.Only("missing-branch"), key).IsZero())
}

func TestSheet_UnmarshalIgnoresNonNumeric(t *testing.T) {
	raw := `{"a-branch":{"2025-04":{"1":1,"2":"yes","3":0.5,"4":null,"x":1,"5":true,"6":{"v":1}}}}`

	var sheet Sheet
	require.NoError(t, json.Unmarshal([]byte(raw), &sheet))

	assert.Len(t, sheet["a-branch"]["2025-04"], 2)
	assert.True(t, d("1.5").Equal(AttendedDays(sheet, branch.Only("a-branch"), "2025-04")))
}

func TestSheet_MarshalWritesNumbers(t *testing.T) {
	sheet := Sheet{}
	sheet.Set("a-branch", "2025-04", 7, d("0.25"))

	out, err := json.Marshal(sheet)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a-branch":{"2025-04":{"7":0.25}}}`, string(out))
}

func TestSheet_Prune(t *testing.T) {
	sheet := Sheet{
		"a-branch": {"2025-04": DayValues{1: d("1")}, "2025-06": DayValues{1: d("1")}},
		"b-branch": {"2024-12": DayValues{1: d("1")}},
	}

	removed := sheet.Prune("2025-06")

	assert.Equal(t, 2, removed)
	assert.NotContains(t, sheet, "b-branch")
	assert.Contains(t, sheet["a-branch"], MonthKey("2025-06"))
	assert.NotContains(t, sheet["a-branch"], MonthKey("2025-04"))
}

func TestAdjustments(t *testing.T) {
	key := MonthKey("2025-04")
	adj := Adjustments{}

	assert.True(t, adj.Get("a-branch", key).IsZero())
	assert.True(t, d("1.5").Equal(adj.Add("a-branch", key, d("1.5"))))
	assert.True(t, d("0.5").Equal(adj.Add("a-branch", key, d("-1"))))
	assert.True(t, adj.Add("a-branch", key, d("-3")).IsZero(), "clamped at zero")

	adj.Add("b-branch", key, d("2"))
	assert.True(t, d("2").Equal(adj.Sum([]string{"a-branch", "b-branch", "c-branch"}, key)))

	var decoded Adjustments
	require.NoError(t, json.Unmarshal([]byte(`{"a-branch":{"2025-04":1.5,"2025-05":"bad"}}`), &decoded))
	assert.True(t, d("1.5").Equal(decoded.Get("a-branch", key)))
	assert.NotContains(t, decoded["a-branch"], MonthKey("2025-05"))
}

func TestRates(t *testing.T) {
	key := NewMonthKey(2025, 4)
	attended := AttendedDays(Sheet{"a-branch": {key: fullMonth(15, "1")}}, branch.All, key)

	assert.True(t, d("50").Equal(Rate(attended, MonthDenominator(key))))
	assert.True(t, d("25").Equal(Rate(attended, BranchMonthDenominator(key, 2))))
	assert.True(t, Rate(attended, BranchMonthDenominator(key, 0)).IsZero())
	assert.True(t, d("15").Equal(AbsentDays(attended, key)))
}

func TestValidDayValue(t *testing.T) {
	for _, ok := range []string{"0", "0.25", "0.5", "0.75", "1"} {
		assert.True(t, ValidDayValue(d(ok)), ok)
	}
	for _, bad := range []string{"-0.25", "1.25", "0.3"} {
		assert.False(t, ValidDayValue(d(bad)), bad)
	}
}

func TestSetDayRequest_Validate(t *testing.T) {
	req := SetDayRequest{BranchID: "a-branch", Month: "2025-02", Day: 28, Value: d("1")}
	assert.NoError(t, req.Validate())

	req.Day = 29
	assert.Error(t, req.Validate())

	req = SetDayRequest{BranchID: "a-branch", Month: "2025-2", Day: 1, Value: d("1")}
	assert.Error(t, req.Validate())
}

func TestBulkTarget_Date(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), BulkToday.Date(now))
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), BulkYesterday.Date(now))
}
