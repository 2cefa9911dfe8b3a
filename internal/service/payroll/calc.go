package payroll

import (
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Tariff carries the business constants of the calculation. The default
// basic salary and the 173-hour divisor are inherited policy values, kept
// here in one place rather than scattered as literals.
type Tariff struct {
	// DefaultBasicSalary substitutes for employees with no salary on file.
	DefaultBasicSalary decimal.Decimal
	// MonthlyWorkingHours divides the basic salary into an hourly rate.
	MonthlyWorkingHours decimal.Decimal
	// OvertimeMultiplier applies to every overtime hour; no holiday or
	// weekend distinction.
	OvertimeMultiplier decimal.Decimal
	// BPJS contribution rates, applied to gross salary.
	BPJSHealthRate     decimal.Decimal
	BPJSEmploymentRate decimal.Decimal
	// PPh21: annual gross above the threshold is taxed at the flat rate,
	// divided back to a monthly figure. A single-threshold approximation of
	// the progressive schedule; the formula is policy, not an oversight.
	AnnualTaxThreshold decimal.Decimal
	TaxRate            decimal.Decimal
}

// DefaultTariff returns the production constants.
func DefaultTariff() Tariff {
	return Tariff{
		DefaultBasicSalary:  decimal.NewFromInt(5_000_000),
		MonthlyWorkingHours: decimal.NewFromInt(173),
		OvertimeMultiplier:  decimal.NewFromFloat(1.5),
		BPJSHealthRate:      decimal.NewFromFloat(0.04),
		BPJSEmploymentRate:  decimal.NewFromFloat(0.02),
		AnnualTaxThreshold:  decimal.NewFromInt(60_000_000),
		TaxRate:             decimal.NewFromFloat(0.15),
	}
}

// Calculation is the arithmetic result for one employee and one period,
// before persistence.
type Calculation struct {
	BasicSalary    decimal.Decimal
	Allowances     map[string]decimal.Decimal
	OvertimePay    decimal.Decimal
	GrossSalary    decimal.Decimal
	BPJSHealth     decimal.Decimal
	BPJSEmployment decimal.Decimal
	PPh21          decimal.Decimal
	Deductions     map[string]decimal.Decimal
	NetSalary      decimal.Decimal
}

// round2 is the single rounding policy: half away from zero, 2 decimal
// places, applied to every derived money figure at the point it is produced.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Calculate runs the full salary arithmetic. basicSalary may be nil, in which
// case the tariff default applies. componentAllowances and
// componentDeductions are per-code breakdowns of the employee's active salary
// component overrides; the returned Deductions map extends the component
// deductions with the three statutory figures.
func Calculate(
	t Tariff,
	basicSalary *decimal.Decimal,
	componentAllowances map[string]decimal.Decimal,
	componentDeductions map[string]decimal.Decimal,
	overtimeHours decimal.Decimal,
) Calculation {
	basic := t.DefaultBasicSalary
	if basicSalary != nil && !basicSalary.IsZero() {
		basic = *basicSalary
	}

	totalAllowances := decimal.Zero
	allowances := make(map[string]decimal.Decimal, len(componentAllowances))
	for code, amount := range componentAllowances {
		allowances[code] = amount
		totalAllowances = totalAllowances.Add(amount)
	}

	totalComponentDeductions := decimal.Zero
	deductions := make(map[string]decimal.Decimal, len(componentDeductions)+3)
	for code, amount := range componentDeductions {
		deductions[code] = amount
		totalComponentDeductions = totalComponentDeductions.Add(amount)
	}

	hourlyRate := basic.Div(t.MonthlyWorkingHours)
	overtimePay := round2(hourlyRate.Mul(overtimeHours).Mul(t.OvertimeMultiplier))

	gross := round2(basic.Add(totalAllowances).Add(overtimePay))

	bpjsHealth := round2(gross.Mul(t.BPJSHealthRate))
	bpjsEmployment := round2(gross.Mul(t.BPJSEmploymentRate))
	pph21 := calculatePPh21(t, gross)

	deductions[payroll.DeductionCodeBPJSHealth] = bpjsHealth
	deductions[payroll.DeductionCodeBPJSEmployment] = bpjsEmployment
	deductions[payroll.DeductionCodePPh21] = pph21

	net := round2(gross.
		Sub(bpjsHealth).
		Sub(bpjsEmployment).
		Sub(pph21).
		Sub(totalComponentDeductions))

	return Calculation{
		BasicSalary:    basic,
		Allowances:     allowances,
		OvertimePay:    overtimePay,
		GrossSalary:    gross,
		BPJSHealth:     bpjsHealth,
		BPJSEmployment: bpjsEmployment,
		PPh21:          pph21,
		Deductions:     deductions,
		NetSalary:      net,
	}
}

// calculatePPh21 annualizes the gross, taxes the excess over the threshold at
// the flat rate and divides back to a monthly withholding. Zero at or below
// the threshold.
func calculatePPh21(t Tariff, gross decimal.Decimal) decimal.Decimal {
	annual := gross.Mul(decimal.NewFromInt(12))
	excess := annual.Sub(t.AnnualTaxThreshold)
	if excess.Sign() <= 0 {
		return decimal.Zero
	}
	return round2(excess.Mul(t.TaxRate).Div(decimal.NewFromInt(12)))
}
