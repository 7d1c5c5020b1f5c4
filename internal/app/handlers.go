package app

import (
	"github.com/fisker/zhr-backend/internal/api/handler"
	"github.com/fisker/zhr-backend/internal/model"
)

// Handlers 所有HTTP处理器实例
type Handlers struct {
	Auth             *handler.AuthHandler
	ForwardingConfig *handler.ForwardingConfigHandler
	Dispatcher       *handler.RequestDispatcher
	Notification     *handler.NotificationHandler
	Employee         *handler.EmployeeHandler
	Organization     *handler.OrganizationHandler
}

// InitializeHandlers 初始化所有处理器
func InitializeHandlers(repos *Repositories, services *Services) *Handlers {
	dispatcher := handler.NewRequestDispatcher()
	dispatcher.Register(model.RequestTypeLeave,
		handler.NewRequestHandler(services.Leave, handler.BindLeaveRequest))
	dispatcher.Register(model.RequestTypeLoan,
		handler.NewRequestHandler(services.Loan, handler.BindLoanRequest))
	dispatcher.Register(model.RequestTypeAdvanceSalary,
		handler.NewRequestHandler(services.AdvanceSalary, handler.BindAdvanceSalaryRequest))
	dispatcher.Register(model.RequestTypeOvertime,
		handler.NewRequestHandler(services.Overtime, handler.BindOvertimeRequest))
	dispatcher.Register(model.RequestTypeAttendanceExemption,
		handler.NewRequestHandler(services.Exemption, handler.BindAttendanceExemption))
	dispatcher.Register(model.RequestTypeAttendanceCorrection,
		handler.NewRequestHandler(services.Correction, handler.BindAttendanceCorrection))

	return &Handlers{
		Auth:             handler.NewAuthHandler(services.Auth),
		ForwardingConfig: handler.NewForwardingConfigHandler(services.ForwardingConfig),
		Dispatcher:       dispatcher,
		Notification:     handler.NewNotificationHandler(services.Notification, services.PushGateway),
		Employee:         handler.NewEmployeeHandler(repos.Employee),
		Organization:     handler.NewOrganizationHandler(repos.Department, repos.SubDepartment),
	}
}
