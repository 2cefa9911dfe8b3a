package payroll

import (
	"bytes"
	"context"
	"html/template"
	"sort"

	"github.com/shopspring/decimal"
)

var payslipTemplate = template.Must(template.New("payslip").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Slip Gaji - {{.EmployeeName}}</title>
	<style>
		body { font-family: Arial, sans-serif; margin: 20px; }
		.header { text-align: center; margin-bottom: 30px; }
		.slip-title { font-size: 18px; font-weight: bold; }
		.employee-info { margin-bottom: 20px; }
		table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
		th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
		td.amount { text-align: right; }
		.total-row { font-weight: bold; background-color: #f5f5f5; }
	</style>
</head>
<body>
	<div class="header">
		<div class="slip-title">Slip Gaji {{.Period}}</div>
	</div>
	<div class="employee-info">
		<p><strong>{{.EmployeeName}}</strong> ({{.EmployeeCode}})</p>
		<p>{{.Position}}{{if .Department}} - {{.Department}}{{end}}</p>
		{{if .BankAccount}}<p>{{.BankName}} {{.BankAccount}}</p>{{end}}
	</div>
	<table>
		<tr><th colspan="2">Pendapatan</th></tr>
		<tr><td>Gaji Pokok</td><td class="amount">{{.BasicSalary}}</td></tr>
		{{range .Allowances}}<tr><td>{{.Code}}</td><td class="amount">{{.Amount}}</td></tr>
		{{end}}<tr><td>Lembur</td><td class="amount">{{.OvertimePay}}</td></tr>
		<tr class="total-row"><td>Gaji Kotor</td><td class="amount">{{.GrossSalary}}</td></tr>
	</table>
	<table>
		<tr><th colspan="2">Potongan</th></tr>
		{{range .Deductions}}<tr><td>{{.Code}}</td><td class="amount">{{.Amount}}</td></tr>
		{{end}}
	</table>
	<table>
		<tr class="total-row"><td>Gaji Bersih</td><td class="amount">{{.NetSalary}}</td></tr>
	</table>
</body>
</html>
`))

type payslipLine struct {
	Code   string
	Amount string
}

type payslipData struct {
	Period       string
	EmployeeName string
	EmployeeCode string
	Position     string
	Department   string
	BankName     string
	BankAccount  string
	BasicSalary  string
	Allowances   []payslipLine
	OvertimePay  string
	GrossSalary  string
	Deductions   []payslipLine
	NetSalary    string
}

// RenderPayslip renders a record into the HTML slip served to the caller and
// marks the record as slip_generated.
func (s *PayrollServiceImpl) RenderPayslip(ctx context.Context, recordID string) ([]byte, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.payrollRepo.GetRecordByID(ctx, recordID, companyID)
	if err != nil {
		return nil, err
	}

	data := payslipData{
		Period:      record.Period,
		BasicSalary: record.BasicSalary.StringFixed(2),
		Allowances:  sortedLines(record.Allowances),
		OvertimePay: record.OvertimePay.StringFixed(2),
		GrossSalary: record.GrossSalary.StringFixed(2),
		Deductions:  sortedLines(record.Deductions),
		NetSalary:   record.NetSalary.StringFixed(2),
	}
	if record.EmployeeName != nil {
		data.EmployeeName = *record.EmployeeName
	}
	if record.EmployeeCode != nil {
		data.EmployeeCode = *record.EmployeeCode
	}
	if record.Position != nil {
		data.Position = *record.Position
	}
	if record.Department != nil {
		data.Department = *record.Department
	}
	if record.BankName != nil {
		data.BankName = *record.BankName
	}
	if record.BankAccount != nil {
		data.BankAccount = *record.BankAccount
	}

	var buf bytes.Buffer
	if err := payslipTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}

	if err := s.payrollRepo.MarkSlipGenerated(ctx, recordID, companyID); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func sortedLines(detail map[string]decimal.Decimal) []payslipLine {
	lines := make([]payslipLine, 0, len(detail))
	for code, amount := range detail {
		lines = append(lines, payslipLine{Code: code, Amount: amount.StringFixed(2)})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Code < lines[j].Code })
	return lines
}
