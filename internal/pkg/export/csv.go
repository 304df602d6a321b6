package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
)

// CSVHeader is the fixed column order of the payroll export.
var CSVHeader = []string{"First Name", "Last Name", "Phone", "Amount"}

// QuotePhone wraps a phone number in single quotes so spreadsheets keep
// leading zeros.
func QuotePhone(phone string) string {
	return "'" + phone + "'"
}

// WritePayrollCSV writes one row per line with the amount at two decimals.
func WritePayrollCSV(w io.Writer, lines []payroll.Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range lines {
		row := []string{l.FirstName, l.LastName, QuotePhone(l.Phone), payroll.FormatAmount(l.Salary)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
