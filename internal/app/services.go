package app

import (
	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/notification"
	"github.com/fisker/zhr-backend/internal/push"
	"github.com/fisker/zhr-backend/internal/service"
	"github.com/fisker/zhr-backend/internal/workflow"
	"github.com/fisker/zhr-backend/pkg/config"
)

// Services 所有服务实例
type Services struct {
	Auth             *service.AuthService
	ForwardingConfig *service.ForwardingConfigService
	Notification     *service.NotificationService

	Leave         *service.RequestService[*model.LeaveRequest]
	Loan          *service.RequestService[*model.LoanRequest]
	AdvanceSalary *service.RequestService[*model.AdvanceSalaryRequest]
	Overtime      *service.RequestService[*model.OvertimeRequest]
	Exemption     *service.RequestService[*model.AttendanceExemption]
	Correction    *service.RequestService[*model.AttendanceCorrectionRequest]

	Engine      *workflow.Engine
	PushGateway *push.Gateway
	Creator     *notification.Creator
}

// InitializeServices 初始化所有服务
// 审批引擎与通知链路在这里装配：引擎产生审批事件，通知器落库并实时推送
func InitializeServices(repos *Repositories, cfg *config.Config) *Services {
	gateway := push.NewGateway()

	prefResolver := notification.NewPreferenceResolver(repos.Preference)
	creator := notification.NewCreator(repos.Notification, prefResolver, gateway)
	notifier := notification.NewApprovalNotifier(creator)

	engine := workflow.NewEngine(
		repos.ForwardingConfig,
		workflow.NewResolver(repos.Employee),
		repos.Employee,
		notifier,
	)
	// 六类请求共用同一个条件更新存储
	engine.Register(model.RequestTypeLeave, repos.ApprovalStore)
	engine.Register(model.RequestTypeLoan, repos.ApprovalStore)
	engine.Register(model.RequestTypeAdvanceSalary, repos.ApprovalStore)
	engine.Register(model.RequestTypeOvertime, repos.ApprovalStore)
	engine.Register(model.RequestTypeAttendanceExemption, repos.ApprovalStore)
	engine.Register(model.RequestTypeAttendanceCorrection, repos.ApprovalStore)

	return &Services{
		Auth:             service.NewAuthService(repos.User, cfg.Security.JWTSecret),
		ForwardingConfig: service.NewForwardingConfigService(repos.ForwardingConfig),
		Notification:     service.NewNotificationService(repos.Notification, repos.Preference, prefResolver),

		Leave:         service.NewRequestService(repos.Leave, repos.Employee, engine),
		Loan:          service.NewRequestService(repos.Loan, repos.Employee, engine),
		AdvanceSalary: service.NewRequestService(repos.AdvanceSalary, repos.Employee, engine),
		Overtime:      service.NewRequestService(repos.Overtime, repos.Employee, engine),
		Exemption:     service.NewRequestService(repos.Exemption, repos.Employee, engine),
		Correction:    service.NewRequestService(repos.Correction, repos.Employee, engine),

		Engine:      engine,
		PushGateway: gateway,
		Creator:     creator,
	}
}
