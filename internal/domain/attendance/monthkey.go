package attendance

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MonthKey identifies a payroll period as "YYYY-MM".
type MonthKey string

var monthKeyRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// NewMonthKey builds a key from a 1-indexed month.
func NewMonthKey(year, month int) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, month))
}

// MonthKeyOf returns the key for the month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), int(t.Month()))
}

// ParseMonthKey validates s at the boundary where external data enters.
func ParseMonthKey(s string) (MonthKey, error) {
	if !monthKeyRegex.MatchString(s) {
		return "", ErrInvalidMonthKey
	}
	month, _ := strconv.Atoi(s[5:7])
	if month < 1 || month > 12 {
		return "", ErrInvalidMonthKey
	}
	return MonthKey(s), nil
}

func (k MonthKey) Valid() bool {
	_, err := ParseMonthKey(string(k))
	return err == nil
}

// Year and Month assume a valid key.
func (k MonthKey) Year() int {
	y, _ := strconv.Atoi(string(k)[0:4])
	return y
}

func (k MonthKey) Month() int {
	m, _ := strconv.Atoi(string(k)[5:7])
	return m
}

func (k MonthKey) DaysInMonth() int {
	return time.Date(k.Year(), time.Month(k.Month())+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstDay returns midnight UTC on the first day of the month.
func (k MonthKey) FirstDay() time.Time {
	return time.Date(k.Year(), time.Month(k.Month()), 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns midnight UTC on the last day of the month.
func (k MonthKey) LastDay() time.Time {
	return time.Date(k.Year(), time.Month(k.Month()), k.DaysInMonth(), 0, 0, 0, 0, time.UTC)
}

// Before compares keys lexically, which matches calendar order for valid keys.
func (k MonthKey) Before(other MonthKey) bool {
	return k < other
}

func (k MonthKey) String() string {
	return string(k)
}
