package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Name", 60},
	{"Phone", 35},
	{"Attended", 22},
	{"Bonus", 18},
	{"Penalty", 18},
	{"Amount", 27},
}

const utf8Family = "PayrollSans"

// PDFOptions selects the font used for payroll sheets. FontPath points to a
// TrueType font with UTF-8 coverage (for example Noto Sans Arabic); when it
// is empty the core Helvetica font is used and text is mapped to cp1252.
type PDFOptions struct {
	FontPath string
}

// newPayrollPDF returns an A4 document, the font family to select, and the
// text mapping that family needs.
func newPayrollPDF(opts PDFOptions) (*gofpdf.Fpdf, string, func(string) string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	if opts.FontPath == "" {
		return pdf, "Helvetica", pdf.UnicodeTranslatorFromDescriptor(""), nil
	}

	pdf.AddUTF8Font(utf8Family, "", opts.FontPath)
	pdf.AddUTF8Font(utf8Family, "B", opts.FontPath)
	if err := pdf.Error(); err != nil {
		return nil, "", nil, fmt.Errorf("load pdf font %s: %w", opts.FontPath, err)
	}
	return pdf, utf8Family, func(s string) string { return s }, nil
}

// WritePayrollPDF renders a report as an A4 payroll sheet.
func WritePayrollPDF(w io.Writer, report payroll.Report, opts PDFOptions) error {
	branchName := report.BranchName
	if branchName == "" {
		branchName = "All Branches"
	}

	pdf, family, tr, err := newPayrollPDF(opts)
	if err != nil {
		return err
	}
	pdf.SetTitle("Payroll "+report.Month.String(), true)
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, "Payroll")
	pdf.Ln(10)
	pdf.SetFont(family, "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Branch: %s", branchName)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", report.Month))
	pdf.Ln(10)

	pdf.SetFont(family, "B", 10)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 10)
	for _, l := range report.Lines {
		cells := []string{
			tr(l.FirstName + " " + l.LastName),
			tr(l.Phone),
			l.AttendedDays.StringFixed(2),
			l.BonusDays.StringFixed(2),
			l.PenaltyDays.StringFixed(2),
			payroll.FormatAmount(l.Salary),
		}
		for i, c := range pdfColumns {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(c.width, 7, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont(family, "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s", report.DisplayTotal.StringFixed(0)))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render payroll pdf: %w", err)
	}
	return nil
}
