package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fisker/zhr-backend/internal/model"
)

// 各请求类型的提交输入与实体构造，日期一律使用 2006-01-02 格式

type leaveRequestInput struct {
	EmployeeID string  `json:"employeeId"`
	LeaveType  string  `json:"leaveType" binding:"required"`
	StartDate  string  `json:"startDate" binding:"required"`
	EndDate    string  `json:"endDate" binding:"required"`
	TotalDays  float64 `json:"totalDays"`
	Reason     string  `json:"reason"`
}

// BindLeaveRequest 请假申请
func BindLeaveRequest(c *gin.Context, defaultEmployeeID string) (*model.LeaveRequest, error) {
	var input leaveRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, err
	}
	start, err := parseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("结束日期不能早于开始日期")
	}
	totalDays := input.TotalDays
	if totalDays <= 0 {
		totalDays = end.Sub(start).Hours()/24 + 1
	}
	return &model.LeaveRequest{
		ID:         uuid.New().String(),
		EmployeeID: employeeOrDefault(input.EmployeeID, defaultEmployeeID),
		LeaveType:  input.LeaveType,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  totalDays,
		Reason:     input.Reason,
	}, nil
}

type loanRequestInput struct {
	EmployeeID   string `json:"employeeId"`
	Amount       string `json:"amount" binding:"required"`
	Installments int    `json:"installments" binding:"required,min=1"`
	Reason       string `json:"reason"`
}

// BindLoanRequest 借款申请，月扣款额按分期均摊
func BindLoanRequest(c *gin.Context, defaultEmployeeID string) (*model.LoanRequest, error) {
	var input loanRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, err
	}
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	monthly := amount.DivRound(decimal.NewFromInt(int64(input.Installments)), 2)
	return &model.LoanRequest{
		ID:               uuid.New().String(),
		EmployeeID:       employeeOrDefault(input.EmployeeID, defaultEmployeeID),
		Amount:           amount,
		Installments:     input.Installments,
		MonthlyDeduction: monthly,
		Reason:           input.Reason,
	}, nil
}

type advanceSalaryInput struct {
	EmployeeID string `json:"employeeId"`
	Amount     string `json:"amount" binding:"required"`
	MonthYear  string `json:"monthYear" binding:"required"`
	Reason     string `json:"reason"`
}

// BindAdvanceSalaryRequest 预支工资申请
func BindAdvanceSalaryRequest(c *gin.Context, defaultEmployeeID string) (*model.AdvanceSalaryRequest, error) {
	var input advanceSalaryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, err
	}
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01", input.MonthYear); err != nil {
		return nil, fmt.Errorf("预支月份格式应为 2006-01")
	}
	return &model.AdvanceSalaryRequest{
		ID:         uuid.New().String(),
		EmployeeID: employeeOrDefault(input.EmployeeID, defaultEmployeeID),
		Amount:     amount,
		MonthYear:  input.MonthYear,
		Reason:     input.Reason,
	}, nil
}

type overtimeRequestInput struct {
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date" binding:"required"`
	StartTime  string  `json:"startTime" binding:"required"`
	EndTime    string  `json:"endTime" binding:"required"`
	Hours      float64 `json:"hours"`
	Reason     string  `json:"reason"`
}

// BindOvertimeRequest 加班申请
func BindOvertimeRequest(c *gin.Context, defaultEmployeeID string) (*model.OvertimeRequest, error) {
	var input overtimeRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, err
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	start, err := parseClock(input.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(input.EndTime)
	if err != nil {
		return nil, err
	}
	hours := input.Hours
	if hours <= 0 {
		hours = end.Sub(start).Hours()
		if hours < 0 {
			// 跨零点加班
			hours += 24
		}
	}
	return &model.OvertimeRequest{
		ID:         uuid.New().String(),
		EmployeeID: employeeOrDefault(input.EmployeeID, defaultEmployeeID),
		Date:       date,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Hours:      hours,
		Reason:     input.Reason,
	}, nil
}

type attendanceExemptionInput struct {
	EmployeeID    string `json:"employeeId"`
	ExemptionType string `json:"exemptionType" binding:"required"`
	StartDate     string `json:"startDate" binding:"required"`
	EndDate       string `json:"endDate" binding:"required"`
	Reason        string `json:"reason"`
}

// BindAttendanceExemption 考勤豁免申请
func BindAttendanceExemption(c *gin.Context, defaultEmployeeID string) (*model.AttendanceExemption, error) {
	var input attendanceExemptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, err
	}
	start, err := parseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("结束日期不能早于开始日期")
	}
	return &model.AttendanceExemption{
		ID:            uuid.New().String(),
		EmployeeID:    employeeOrDefault(input.EmployeeID, defaultEmployeeID),
		ExemptionType: input.ExemptionType,
		StartDate:     start,
		EndDate:       end,
		Reason:        input.Reason,
	}, nil
}

type attendanceCorrectionInput struct {
	EmployeeID   string  `json:"employeeId"`
	Date         string  `json:"date" binding:"required"`
	CheckInTime  *string `json:"checkInTime"`
	CheckOutTime *string `json:"checkOutTime"`
	Reason       string  `json:"reason"`
}

// BindAttendanceCorrection 考勤补卡申请，上下班卡至少修正一个
func BindAttendanceCorrection(c *gin.Context, defaultEmployeeID string) (*model.AttendanceCorrectionRequest, error) {
	var input attendanceCorrectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, err
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if input.CheckInTime == nil && input.CheckOutTime == nil {
		return nil, fmt.Errorf("必须至少提供上班或下班打卡时间")
	}
	if input.CheckInTime != nil {
		if _, err := parseClock(*input.CheckInTime); err != nil {
			return nil, err
		}
	}
	if input.CheckOutTime != nil {
		if _, err := parseClock(*input.CheckOutTime); err != nil {
			return nil, err
		}
	}
	return &model.AttendanceCorrectionRequest{
		ID:           uuid.New().String(),
		EmployeeID:   employeeOrDefault(input.EmployeeID, defaultEmployeeID),
		Date:         date,
		CheckInTime:  input.CheckInTime,
		CheckOutTime: input.CheckOutTime,
		Reason:       input.Reason,
	}, nil
}

func employeeOrDefault(employeeID, fallback string) string {
	if employeeID != "" {
		return employeeID
	}
	return fallback
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式应为 2006-01-02: %s", s)
	}
	return t, nil
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("时间格式应为 HH:mm: %s", s)
	}
	return t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("金额格式不正确: %s", s)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("金额必须大于0")
	}
	return amount, nil
}
