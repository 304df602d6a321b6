package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(first, last, phone, salary string) payroll.Line {
	return payroll.NewLine("id-"+first, first, last, phone, "cashier", decimal.NewFromInt(3000),
		[]payroll.Breakdown{{Salary: decimal.RequireFromString(salary)}})
}

func TestWritePayrollCSV(t *testing.T) {
	var buf bytes.Buffer
	lines := []payroll.Line{
		line("Ahmed", "Ali", "01012345678", "3050"),
		line("Sara", "Hassan", "01198765432", "1333.333333"),
	}

	require.NoError(t, WritePayrollCSV(&buf, lines))

	rows := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "First Name,Last Name,Phone,Amount", rows[0])
	assert.Equal(t, "Ahmed,Ali,'01012345678',3050.00", rows[1])
	assert.Equal(t, "Sara,Hassan,'01198765432',1333.33", rows[2])
}

func TestWritePayrollCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePayrollCSV(&buf, nil))
	assert.Equal(t, "First Name,Last Name,Phone,Amount\n", buf.String())
}

func TestWritePayrollPDF(t *testing.T) {
	var buf bytes.Buffer
	report := payroll.NewReport(branch.All, "", "2025-04", []payroll.Line{line("Ahmed", "Ali", "01012345678", "3050")})

	require.NoError(t, WritePayrollPDF(&buf, report, PDFOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePayrollPDF_NonLatinNames(t *testing.T) {
	var buf bytes.Buffer
	report := payroll.NewReport(branch.Only("cairo-branch"), "القاهرة", "2025-04",
		[]payroll.Line{line("أحمد", "علي", "01012345678", "3050")})

	require.NoError(t, WritePayrollPDF(&buf, report, PDFOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestNewPayrollPDF_CoreFontMapsToCP1252(t *testing.T) {
	_, family, tr, err := newPayrollPDF(PDFOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Helvetica", family)
	assert.Equal(t, "Jos\xe9", tr("José"))
	assert.Equal(t, "Ana Lopez", tr("Ana Lopez"))
}

func TestNewPayrollPDF_MissingFont(t *testing.T) {
	_, _, _, err := newPayrollPDF(PDFOptions{FontPath: "testdata/missing.ttf"})
	assert.Error(t, err)

	var buf bytes.Buffer
	report := payroll.NewReport(branch.All, "", "2025-04", nil)
	assert.Error(t, WritePayrollPDF(&buf, report, PDFOptions{FontPath: "testdata/missing.ttf"}))
}
