package payroll

import (
	"testing"

	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateDefaultBasicSalary(t *testing.T) {
	calc := Calculate(DefaultTariff(), nil, nil, nil, decimal.Zero)

	assert.True(t, calc.BasicSalary.Equal(dec("5000000")), "basic salary should default to 5000000, got %s", calc.BasicSalary)
	assert.True(t, calc.OvertimePay.IsZero())
	assert.True(t, calc.GrossSalary.Equal(dec("5000000")))
	assert.True(t, calc.BPJSHealth.Equal(dec("200000")), "bpjs health should be 4%% of gross, got %s", calc.BPJSHealth)
	assert.True(t, calc.BPJSEmployment.Equal(dec("100000")), "bpjs employment should be 2%% of gross, got %s", calc.BPJSEmployment)
	assert.True(t, calc.PPh21.IsZero(), "annual gross at the 60M threshold is untaxed, got %s", calc.PPh21)
	assert.True(t, calc.NetSalary.Equal(dec("4700000")), "got %s", calc.NetSalary)
}

func TestCalculateZeroBasicSalaryUsesDefault(t *testing.T) {
	zero := decimal.Zero
	calc := Calculate(DefaultTariff(), &zero, nil, nil, decimal.Zero)

	assert.True(t, calc.BasicSalary.Equal(dec("5000000")))
}

func TestCalculateOvertimePay(t *testing.T) {
	// 5000000 / 173 * 10 * 1.5 = 433526.011560... rounded to 433526.01
	calc := Calculate(DefaultTariff(), nil, nil, nil, dec("10"))

	assert.True(t, calc.OvertimePay.Equal(dec("433526.01")), "got %s", calc.OvertimePay)
	assert.True(t, calc.GrossSalary.Equal(dec("5433526.01")), "got %s", calc.GrossSalary)
}

func TestCalculatePPh21AboveThreshold(t *testing.T) {
	// 5416666.67 * 12 = 65000000.04 annual; (65000000.04 - 60000000) * 0.15 / 12 = 62500.0005
	basic := dec("5416666.67")
	calc := Calculate(DefaultTariff(), &basic, nil, nil, decimal.Zero)

	assert.True(t, calc.PPh21.Equal(dec("62500")), "got %s", calc.PPh21)
	assert.True(t, calc.BPJSHealth.Equal(dec("216666.67")), "got %s", calc.BPJSHealth)
	assert.True(t, calc.BPJSEmployment.Equal(dec("108333.33")), "got %s", calc.BPJSEmployment)
}

func TestCalculatePPh21BarelyAboveThreshold(t *testing.T) {
	// One cent above 5M monthly: the excess rounds away to zero withholding.
	basic := dec("5000000.01")
	calc := Calculate(DefaultTariff(), &basic, nil, nil, decimal.Zero)

	assert.True(t, calc.PPh21.IsZero(), "got %s", calc.PPh21)
}

func TestCalculateWithComponentsAndOvertime(t *testing.T) {
	basic := dec("10000000")
	allowances := map[string]decimal.Decimal{"MEAL": dec("500000")}
	deductions := map[string]decimal.Decimal{"LOAN": dec("250000")}

	calc := Calculate(DefaultTariff(), &basic, allowances, deductions, dec("5"))

	// 10000000 / 173 * 5 * 1.5
	require.True(t, calc.OvertimePay.Equal(dec("433526.01")), "got %s", calc.OvertimePay)
	require.True(t, calc.GrossSalary.Equal(dec("10933526.01")), "got %s", calc.GrossSalary)

	assert.True(t, calc.BPJSHealth.Equal(dec("437341.04")), "got %s", calc.BPJSHealth)
	assert.True(t, calc.BPJSEmployment.Equal(dec("218670.52")), "got %s", calc.BPJSEmployment)
	assert.True(t, calc.PPh21.Equal(dec("890028.90")), "got %s", calc.PPh21)
	assert.True(t, calc.NetSalary.Equal(dec("9137485.55")), "got %s", calc.NetSalary)

	// The deductions breakdown carries component codes and statutory codes.
	assert.True(t, calc.Deductions["LOAN"].Equal(dec("250000")))
	assert.True(t, calc.Deductions[payroll.DeductionCodeBPJSHealth].Equal(calc.BPJSHealth))
	assert.True(t, calc.Deductions[payroll.DeductionCodeBPJSEmployment].Equal(calc.BPJSEmployment))
	assert.True(t, calc.Deductions[payroll.DeductionCodePPh21].Equal(calc.PPh21))
	assert.True(t, calc.Allowances["MEAL"].Equal(dec("500000")))
}

func TestCalculateNetSalaryIdentity(t *testing.T) {
	basic := dec("7250000")
	allowances := map[string]decimal.Decimal{
		"TRANSPORT": dec("300000"),
		"MEAL":      dec("450000"),
	}
	deductions := map[string]decimal.Decimal{"COOP": dec("125000")}

	calc := Calculate(DefaultTariff(), &basic, allowances, deductions, dec("7.5"))

	totalAllowances := dec("750000")
	assert.True(t, calc.GrossSalary.Equal(calc.BasicSalary.Add(totalAllowances).Add(calc.OvertimePay)),
		"gross must equal basic + allowances + overtime")

	expectedNet := calc.GrossSalary.
		Sub(calc.BPJSHealth).
		Sub(calc.BPJSEmployment).
		Sub(calc.PPh21).
		Sub(dec("125000"))
	assert.True(t, calc.NetSalary.Equal(expectedNet.Round(2)), "got %s want %s", calc.NetSalary, expectedNet)
}

func TestCalculateNegativeNetIsNotClamped(t *testing.T) {
	basic := dec("1000000")
	deductions := map[string]decimal.Decimal{"LOAN": dec("2000000")}

	calc := Calculate(DefaultTariff(), &basic, nil, deductions, decimal.Zero)

	assert.True(t, calc.NetSalary.Equal(dec("-1060000")), "got %s", calc.NetSalary)
}
