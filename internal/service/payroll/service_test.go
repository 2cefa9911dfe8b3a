package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/attendance"
	"github.com/gajihub/payroll-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "company-1"
	testUserID    = "user-1"
)

func authedContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":    testUserID,
		"company_id": testCompanyID,
		"role":       "hr",
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// ========== FAKES ==========

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	newEmployee.ID = uuid.NewString()
	f.employees = append(f.employees, newEmployee)
	return newEmployee, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var active []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID && e.Status == employee.StatusActive {
			active = append(active, e)
		}
	}
	return active, nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var all []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID {
			all = append(all, e)
		}
	}
	return all, nil
}

func (f *fakeEmployeeRepo) CompanyIDsWithActiveEmployees(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range f.employees {
		if e.Status == employee.StatusActive && !seen[e.CompanyID] {
			seen[e.CompanyID] = true
			ids = append(ids, e.CompanyID)
		}
	}
	return ids, nil
}

type fakeAttendanceRepo struct {
	overtimeByEmployee map[string]decimal.Decimal
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	att.ID = uuid.NewString()
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) ListByEmployeeDateRange(ctx context.Context, employeeID string, companyID string, from, to time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) SumOvertimeHours(ctx context.Context, employeeID string, companyID string, from, to time.Time) (decimal.Decimal, error) {
	if hours, ok := f.overtimeByEmployee[employeeID]; ok {
		return hours, nil
	}
	return decimal.Zero, nil
}

func (f *fakeAttendanceRepo) SetOvertimeHours(ctx context.Context, id string, companyID string, hours decimal.Decimal) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

type fakePayrollRepo struct {
	components          map[string]payroll.SalaryComponent
	employeeComponents  map[string][]payroll.EmployeeSalaryComponent
	records             map[string]payroll.PayrollRecord // keyed by employeeID|period
	recordsByID         map[string]payroll.PayrollRecord
	createErrByEmployee map[string]error
	createCalls         map[string]int

	// hideUntilCreateAttempt makes GetRecordByEmployeePeriod miss until
	// CreateRecord has been tried, mimicking a concurrent run winning the
	// insert between the existence check and the insert.
	hideUntilCreateAttempt bool
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		components:          make(map[string]payroll.SalaryComponent),
		employeeComponents:  make(map[string][]payroll.EmployeeSalaryComponent),
		records:             make(map[string]payroll.PayrollRecord),
		recordsByID:         make(map[string]payroll.PayrollRecord),
		createErrByEmployee: make(map[string]error),
		createCalls:         make(map[string]int),
	}
}

func recordKey(employeeID, period string) string {
	return employeeID + "|" + period
}

func (f *fakePayrollRepo) CreateComponent(ctx context.Context, component payroll.SalaryComponent) (payroll.SalaryComponent, error) {
	for _, c := range f.components {
		if c.CompanyID == component.CompanyID && c.Code == component.Code {
			return payroll.SalaryComponent{}, payroll.ErrComponentCodeExists
		}
	}
	component.ID = uuid.NewString()
	f.components[component.ID] = component
	return component, nil
}

func (f *fakePayrollRepo) GetComponentByID(ctx context.Context, id string, companyID string) (payroll.SalaryComponent, error) {
	c, ok := f.components[id]
	if !ok || c.CompanyID != companyID {
		return payroll.SalaryComponent{}, payroll.ErrComponentNotFound
	}
	return c, nil
}

func (f *fakePayrollRepo) GetComponentsByCompanyID(ctx context.Context, companyID string, activeOnly bool) ([]payroll.SalaryComponent, error) {
	var result []payroll.SalaryComponent
	for _, c := range f.components {
		if c.CompanyID != companyID {
			continue
		}
		if activeOnly && !c.IsActive {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (f *fakePayrollRepo) UpdateComponent(ctx context.Context, companyID string, req payroll.UpdateSalaryComponentRequest) error {
	c, ok := f.components[req.ID]
	if !ok || c.CompanyID != companyID {
		return payroll.ErrComponentNotFound
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	f.components[req.ID] = c
	return nil
}

func (f *fakePayrollRepo) DeactivateComponent(ctx context.Context, id string, companyID string) error {
	c, ok := f.components[id]
	if !ok || c.CompanyID != companyID {
		return payroll.ErrComponentNotFound
	}
	c.IsActive = false
	f.components[id] = c
	return nil
}

func (f *fakePayrollRepo) UpsertEmployeeComponent(ctx context.Context, assignment payroll.EmployeeSalaryComponent, companyID string) (payroll.EmployeeSalaryComponent, error) {
	assignment.ID = uuid.NewString()
	assignment.IsActive = true
	f.employeeComponents[assignment.EmployeeID] = append(f.employeeComponents[assignment.EmployeeID], assignment)
	return assignment, nil
}

func (f *fakePayrollRepo) GetEmployeeComponents(ctx context.Context, employeeID string, companyID string, activeOnly bool) ([]payroll.EmployeeSalaryComponent, error) {
	var result []payroll.EmployeeSalaryComponent
	for _, a := range f.employeeComponents[employeeID] {
		if activeOnly && !a.IsActive {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakePayrollRepo) DeactivateEmployeeComponent(ctx context.Context, id string, companyID string) error {
	for employeeID, assignments := range f.employeeComponents {
		for i, a := range assignments {
			if a.ID == id {
				assignments[i].IsActive = false
				f.employeeComponents[employeeID] = assignments
				return nil
			}
		}
	}
	return payroll.ErrEmployeeComponentNotFound
}

func (f *fakePayrollRepo) CreateRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	f.createCalls[record.EmployeeID]++
	if err, ok := f.createErrByEmployee[record.EmployeeID]; ok {
		return payroll.PayrollRecord{}, err
	}
	key := recordKey(record.EmployeeID, record.Period)
	if _, exists := f.records[key]; exists {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
	}
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records[key] = record
	f.recordsByID[record.ID] = record
	return record, nil
}

func (f *fakePayrollRepo) GetRecordByID(ctx context.Context, id string, companyID string) (payroll.PayrollRecord, error) {
	r, ok := f.recordsByID[id]
	if !ok || r.CompanyID != companyID {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) GetRecordByEmployeePeriod(ctx context.Context, employeeID string, period string, companyID string) (payroll.PayrollRecord, error) {
	if f.hideUntilCreateAttempt && f.createCalls[employeeID] == 0 {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	r, ok := f.records[recordKey(employeeID, period)]
	if !ok || r.CompanyID != companyID {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) ListRecords(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	var result []payroll.PayrollRecord
	for _, r := range f.records {
		if r.CompanyID != companyID {
			continue
		}
		if filter.Period != nil && r.Period != *filter.Period {
			continue
		}
		if filter.Status != nil && string(r.Status) != *filter.Status {
			continue
		}
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		result = append(result, r)
	}
	return result, int64(len(result)), nil
}

func (f *fakePayrollRepo) UpdateRecordStatus(ctx context.Context, id string, companyID string, status payroll.PayrollStatus) (payroll.PayrollRecord, error) {
	r, ok := f.recordsByID[id]
	if !ok || r.CompanyID != companyID {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	r.Status = status
	if status == payroll.PayrollStatusPaid {
		now := time.Now()
		r.PaidAt = &now
	}
	f.recordsByID[id] = r
	f.records[recordKey(r.EmployeeID, r.Period)] = r
	return r, nil
}

func (f *fakePayrollRepo) MarkSlipGenerated(ctx context.Context, id string, companyID string) error {
	r, ok := f.recordsByID[id]
	if !ok || r.CompanyID != companyID {
		return payroll.ErrPayrollRecordNotFound
	}
	r.SlipGenerated = true
	f.recordsByID[id] = r
	f.records[recordKey(r.EmployeeID, r.Period)] = r
	return nil
}

func (f *fakePayrollRepo) GetSummary(ctx context.Context, companyID string, period string) (payroll.PayrollSummaryResponse, error) {
	summary := payroll.PayrollSummaryResponse{Period: period}
	for _, r := range f.records {
		if r.CompanyID != companyID || r.Period != period {
			continue
		}
		summary.TotalEmployees++
		summary.TotalBasicSalary = summary.TotalBasicSalary.Add(r.BasicSalary)
		summary.TotalOvertime = summary.TotalOvertime.Add(r.OvertimePay)
		summary.TotalGrossSalary = summary.TotalGrossSalary.Add(r.GrossSalary)
		summary.TotalBPJSHealth = summary.TotalBPJSHealth.Add(r.BPJSHealth)
		summary.TotalBPJSEmp = summary.TotalBPJSEmp.Add(r.BPJSEmployment)
		summary.TotalPPh21 = summary.TotalPPh21.Add(r.PPh21)
		summary.TotalNetSalary = summary.TotalNetSalary.Add(r.NetSalary)
		switch r.Status {
		case payroll.PayrollStatusDraft:
			summary.DraftCount++
		case payroll.PayrollStatusProcessed:
			summary.ProcessedCount++
		case payroll.PayrollStatusPaid:
			summary.PaidCount++
		}
	}
	return summary, nil
}

// ========== FIXTURES ==========

func newTestService(employeeRepo *fakeEmployeeRepo, attendanceRepo *fakeAttendanceRepo, payrollRepo *fakePayrollRepo) payroll.Service {
	svc := NewPayrollService(nil, payrollRepo, employeeRepo, attendanceRepo).(*PayrollServiceImpl)
	svc.inTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	return svc
}

func activeEmployee(id string, basicSalary *decimal.Decimal) employee.Employee {
	return employee.Employee{
		ID:           id,
		CompanyID:    testCompanyID,
		EmployeeCode: "EMP-" + id,
		FullName:     "Employee " + id,
		Status:       employee.StatusActive,
		BasicSalary:  basicSalary,
	}
}

// ========== TESTS ==========

func TestProcessPayrollCreatesDraftRecords(t *testing.T) {
	salary := dec("8000000")
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", &salary),
		activeEmployee("emp-2", nil),
	}}
	attendanceRepo := &fakeAttendanceRepo{overtimeByEmployee: map[string]decimal.Decimal{
		"emp-1": dec("10"),
	}}
	payrollRepo := newFakePayrollRepo()
	svc := newTestService(employeeRepo, attendanceRepo, payrollRepo)

	result, err := svc.ProcessPayroll(authedContext(t), payroll.ProcessPayrollRequest{Period: "2026-08"})
	require.NoError(t, err)

	assert.Len(t, result.Processed, 2)
	assert.Empty(t, result.Failures)
	assert.Equal(t, "payroll processed for 2 of 2 employees", result.Summary)

	for _, rec := range result.Processed {
		assert.Equal(t, string(payroll.PayrollStatusDraft), rec.Status)
		assert.Equal(t, "2026-08", rec.Period)
		assert.NotNil(t, rec.ProcessedAt)
	}

	// The employee with no salary on file gets the default.
	byEmployee := make(map[string]payroll.PayrollRecordResponse)
	for _, rec := range result.Processed {
		byEmployee[rec.EmployeeID] = rec
	}
	assert.True(t, byEmployee["emp-1"].BasicSalary.Equal(dec("8000000")))
	assert.True(t, byEmployee["emp-2"].BasicSalary.Equal(dec("5000000")))
	assert.True(t, byEmployee["emp-2"].OvertimePay.IsZero(), "no attendance means zero overtime")
	assert.False(t, byEmployee["emp-1"].OvertimePay.IsZero())
}

func TestProcessPayrollIsIdempotent(t *testing.T) {
	salary := dec("6000000")
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", &salary),
	}}
	attendanceRepo := &fakeAttendanceRepo{}
	payrollRepo := newFakePayrollRepo()
	svc := newTestService(employeeRepo, attendanceRepo, payrollRepo)

	ctx := authedContext(t)
	first, err := svc.ProcessPayroll(ctx, payroll.ProcessPayrollRequest{Period: "2026-08"})
	require.NoError(t, err)
	require.Len(t, first.Processed, 1)

	// Change the salary between runs; the stored record must not move.
	newSalary := dec("9000000")
	employeeRepo.employees[0].BasicSalary = &newSalary

	second, err := svc.ProcessPayroll(ctx, payroll.ProcessPayrollRequest{Period: "2026-08"})
	require.NoError(t, err)
	require.Len(t, second.Processed, 1)

	assert.Equal(t, first.Processed[0].ID, second.Processed[0].ID)
	assert.True(t, second.Processed[0].BasicSalary.Equal(dec("6000000")))
	assert.Len(t, payrollRepo.records, 1)
	assert.Equal(t, 1, payrollRepo.createCalls["emp-1"], "second run must not attempt an insert")
}

func TestProcessPayrollSingleEmployeeScope(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", nil),
		activeEmployee("emp-2", nil),
	}}
	payrollRepo := newFakePayrollRepo()
	svc := newTestService(employeeRepo, &fakeAttendanceRepo{}, payrollRepo)

	employeeID := "emp-2"
	result, err := svc.ProcessPayroll(authedContext(t), payroll.ProcessPayrollRequest{
		Period:     "2026-08",
		EmployeeID: &employeeID,
	})
	require.NoError(t, err)

	require.Len(t, result.Processed, 1)
	assert.Equal(t, "emp-2", result.Processed[0].EmployeeID)
	assert.Equal(t, "payroll processed for 1 of 1 employees", result.Summary)
	assert.Len(t, payrollRepo.records, 1)
}

func TestProcessPayrollUnknownEmployeeReportsFailure(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{}
	svc := newTestService(employeeRepo, &fakeAttendanceRepo{}, newFakePayrollRepo())

	employeeID := "missing"
	result, err := svc.ProcessPayroll(authedContext(t), payroll.ProcessPayrollRequest{
		Period:     "2026-08",
		EmployeeID: &employeeID,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Processed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "missing", result.Failures[0].EmployeeID)
	assert.Equal(t, "payroll processed for 0 of 1 employees", result.Summary)
}

func TestProcessPayrollAbortsBatchOnStoreFailure(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", nil),
		activeEmployee("emp-2", nil),
		activeEmployee("emp-3", nil),
	}}
	payrollRepo := newFakePayrollRepo()
	payrollRepo.createErrByEmployee["emp-2"] = errors.New("connection reset")
	svc := newTestService(employeeRepo, &fakeAttendanceRepo{}, payrollRepo)

	result, err := svc.ProcessPayroll(authedContext(t), payroll.ProcessPayrollRequest{Period: "2026-08"})
	require.NoError(t, err)

	assert.Len(t, result.Processed, 1)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "emp-2", result.Failures[0].EmployeeID)
	assert.Contains(t, result.Failures[0].Error, "connection reset")
	assert.Equal(t, "emp-3", result.Failures[1].EmployeeID)
	assert.Equal(t, "aborted after database error", result.Failures[1].Error)
	assert.Equal(t, "payroll processed for 1 of 3 employees", result.Summary)

	// The record written before the failure stays written.
	assert.Len(t, payrollRepo.records, 1)
}

func TestProcessPayrollLostInsertRaceReturnsWinner(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", nil),
	}}
	payrollRepo := newFakePayrollRepo()

	// The existence check misses, the insert hits the unique constraint,
	// and the re-read returns the concurrent winner's record.
	winner := payroll.PayrollRecord{
		ID:          "winner-id",
		EmployeeID:  "emp-1",
		CompanyID:   testCompanyID,
		Period:      "2026-08",
		BasicSalary: dec("5000000"),
		Status:      payroll.PayrollStatusDraft,
	}
	payrollRepo.records[recordKey("emp-1", "2026-08")] = winner
	payrollRepo.recordsByID["winner-id"] = winner
	payrollRepo.createErrByEmployee["emp-1"] = payroll.ErrPayrollRecordAlreadyExists
	payrollRepo.hideUntilCreateAttempt = true
	svc := newTestService(employeeRepo, &fakeAttendanceRepo{}, payrollRepo)

	result, err := svc.ProcessPayroll(authedContext(t), payroll.ProcessPayrollRequest{Period: "2026-08"})
	require.NoError(t, err)

	require.Len(t, result.Processed, 1)
	assert.Equal(t, "winner-id", result.Processed[0].ID)
}

func TestProcessPayrollRejectsMalformedPeriod(t *testing.T) {
	svc := newTestService(&fakeEmployeeRepo{}, &fakeAttendanceRepo{}, newFakePayrollRepo())

	for _, period := range []string{"2026-13", "2026-1", "08-2026", "abc"} {
		_, err := svc.ProcessPayroll(authedContext(t), payroll.ProcessPayrollRequest{Period: period})
		assert.Error(t, err, "period %q must be rejected", period)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", nil),
	}}
	payrollRepo := newFakePayrollRepo()
	svc := newTestService(employeeRepo, &fakeAttendanceRepo{}, payrollRepo)

	ctx := authedContext(t)
	result, err := svc.ProcessPayroll(ctx, payroll.ProcessPayrollRequest{Period: "2026-08"})
	require.NoError(t, err)
	require.Len(t, result.Processed, 1)
	recordID := result.Processed[0].ID

	// draft -> paid is not a legal step
	_, err = svc.UpdateStatus(ctx, payroll.UpdatePayrollStatusRequest{ID: recordID, Status: "paid"})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	// draft -> processed
	updated, err := svc.UpdateStatus(ctx, payroll.UpdatePayrollStatusRequest{ID: recordID, Status: "processed"})
	require.NoError(t, err)
	assert.Equal(t, "processed", updated.Status)

	// processed -> paid
	updated, err = svc.UpdateStatus(ctx, payroll.UpdatePayrollStatusRequest{ID: recordID, Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "paid", updated.Status)
	assert.NotNil(t, updated.PaidAt)

	// paid is terminal
	_, err = svc.UpdateStatus(ctx, payroll.UpdatePayrollStatusRequest{ID: recordID, Status: "processed"})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)
}

func TestAssignComponentAndUpdateStatusRunInTransaction(t *testing.T) {
	salary := dec("5000000")
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", &salary),
	}}
	payrollRepo := newFakePayrollRepo()

	txCalls := 0
	svc := NewPayrollService(nil, payrollRepo, employeeRepo, &fakeAttendanceRepo{}).(*PayrollServiceImpl)
	svc.inTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		txCalls++
		return fn(ctx)
	}

	ctx := authedContext(t)
	component, err := svc.CreateComponent(ctx, payroll.CreateSalaryComponentRequest{
		Code: "MEAL",
		Name: "Meal allowance",
		Type: "allowance",
	})
	require.NoError(t, err)

	_, err = svc.AssignComponent(ctx, payroll.AssignComponentRequest{
		EmployeeID:  "emp-1",
		ComponentID: component.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, txCalls)

	result, err := svc.ProcessPayroll(ctx, payroll.ProcessPayrollRequest{Period: "2026-08"})
	require.NoError(t, err)
	require.Len(t, result.Processed, 1)

	_, err = svc.UpdateStatus(ctx, payroll.UpdatePayrollStatusRequest{ID: result.Processed[0].ID, Status: "processed"})
	require.NoError(t, err)
	assert.Equal(t, 2, txCalls)

	// An illegal transition surfaces through the transaction wrapper too.
	_, err = svc.UpdateStatus(ctx, payroll.UpdatePayrollStatusRequest{ID: result.Processed[0].ID, Status: "processed"})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)
}

func TestProcessPayrollWithoutCompanyScope(t *testing.T) {
	svc := newTestService(&fakeEmployeeRepo{}, &fakeAttendanceRepo{}, newFakePayrollRepo())

	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id": testUserID,
		"role":    "hr",
		"type":    "access",
	})
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	_, err = svc.ProcessPayroll(ctx, payroll.ProcessPayrollRequest{Period: "2026-08"})
	assert.ErrorIs(t, err, auth.ErrCompanyScopeMissed)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&fakeEmployeeRepo{}, &fakeAttendanceRepo{}, newFakePayrollRepo())

	_, err := svc.UpdateStatus(authedContext(t), payroll.UpdatePayrollStatusRequest{ID: "any", Status: "finalized"})
	assert.Error(t, err)
}

func TestAssignComponentFallsBackToDefaultAmount(t *testing.T) {
	payrollRepo := newFakePayrollRepo()
	svc := newTestService(&fakeEmployeeRepo{}, &fakeAttendanceRepo{}, payrollRepo)

	ctx := authedContext(t)
	component, err := svc.CreateComponent(ctx, payroll.CreateSalaryComponentRequest{
		Code: "MEAL",
		Name: "Meal allowance",
		Type: "allowance",
		DefaultAmount: func() *decimal.Decimal {
			d := dec("400000")
			return &d
		}(),
	})
	require.NoError(t, err)

	assigned, err := svc.AssignComponent(ctx, payroll.AssignComponentRequest{
		EmployeeID:  "emp-1",
		ComponentID: component.ID,
	})
	require.NoError(t, err)
	assert.True(t, assigned.Amount.Equal(dec("400000")))

	override := dec("550000")
	assigned, err = svc.AssignComponent(ctx, payroll.AssignComponentRequest{
		EmployeeID:  "emp-1",
		ComponentID: component.ID,
		Amount:      &override,
	})
	require.NoError(t, err)
	assert.True(t, assigned.Amount.Equal(dec("550000")))
}

func TestProcessPayrollSplitsComponentsByType(t *testing.T) {
	salary := dec("10000000")
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", &salary),
	}}
	payrollRepo := newFakePayrollRepo()

	allowanceCode := "TRANSPORT"
	allowanceType := payroll.ComponentTypeAllowance
	deductionCode := "LOAN"
	deductionType := payroll.ComponentTypeDeduction
	payrollRepo.employeeComponents["emp-1"] = []payroll.EmployeeSalaryComponent{
		{ID: "a-1", EmployeeID: "emp-1", Amount: dec("300000"), IsActive: true, ComponentCode: &allowanceCode, ComponentType: &allowanceType},
		{ID: "a-2", EmployeeID: "emp-1", Amount: dec("150000"), IsActive: true, ComponentCode: &deductionCode, ComponentType: &deductionType},
	}
	svc := newTestService(employeeRepo, &fakeAttendanceRepo{}, payrollRepo)

	result, err := svc.ProcessPayroll(authedContext(t), payroll.ProcessPayrollRequest{Period: "2026-08"})
	require.NoError(t, err)
	require.Len(t, result.Processed, 1)

	rec := result.Processed[0]
	assert.True(t, rec.Allowances["TRANSPORT"].Equal(dec("300000")))
	assert.True(t, rec.Deductions["LOAN"].Equal(dec("150000")))
	assert.True(t, rec.GrossSalary.Equal(dec("10300000")), "got %s", rec.GrossSalary)

	// Statutory deductions sit in the same breakdown map.
	assert.True(t, rec.Deductions[payroll.DeductionCodeBPJSHealth].Equal(rec.BPJSHealth))
	assert.True(t, rec.Deductions[payroll.DeductionCodeBPJSEmployment].Equal(rec.BPJSEmployment))
	assert.True(t, rec.Deductions[payroll.DeductionCodePPh21].Equal(rec.PPh21))
}
