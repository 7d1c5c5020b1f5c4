package app

import (
	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/repository"
	"github.com/fisker/zhr-backend/pkg/database"
)

// Repositories 所有仓库实例
type Repositories struct {
	User             *repository.UserRepository
	Department       *repository.DepartmentRepository
	SubDepartment    *repository.SubDepartmentRepository
	Employee         *repository.EmployeeRepository
	ForwardingConfig *repository.ForwardingConfigRepository
	ApprovalStore    *repository.ApprovalStore

	Leave         *repository.RequestRepository[*model.LeaveRequest]
	Loan          *repository.RequestRepository[*model.LoanRequest]
	AdvanceSalary *repository.RequestRepository[*model.AdvanceSalaryRequest]
	Overtime      *repository.RequestRepository[*model.OvertimeRequest]
	Exemption     *repository.RequestRepository[*model.AttendanceExemption]
	Correction    *repository.RequestRepository[*model.AttendanceCorrectionRequest]

	Notification    *repository.NotificationRepository
	DeliveryAttempt *repository.DeliveryAttemptRepository
	Preference      *repository.PreferenceRepository
}

// InitializeRepositories 初始化所有仓库
func InitializeRepositories() *Repositories {
	db := database.DB
	return &Repositories{
		User:             repository.NewUserRepository(db),
		Department:       repository.NewDepartmentRepository(db),
		SubDepartment:    repository.NewSubDepartmentRepository(db),
		Employee:         repository.NewEmployeeRepository(db),
		ForwardingConfig: repository.NewForwardingConfigRepository(db),
		ApprovalStore:    repository.NewApprovalStore(db),

		Leave:         repository.NewRequestRepository(db, func() *model.LeaveRequest { return &model.LeaveRequest{} }),
		Loan:          repository.NewRequestRepository(db, func() *model.LoanRequest { return &model.LoanRequest{} }),
		AdvanceSalary: repository.NewRequestRepository(db, func() *model.AdvanceSalaryRequest { return &model.AdvanceSalaryRequest{} }),
		Overtime:      repository.NewRequestRepository(db, func() *model.OvertimeRequest { return &model.OvertimeRequest{} }),
		Exemption:     repository.NewRequestRepository(db, func() *model.AttendanceExemption { return &model.AttendanceExemption{} }),
		Correction:    repository.NewRequestRepository(db, func() *model.AttendanceCorrectionRequest { return &model.AttendanceCorrectionRequest{} }),

		Notification:    repository.NewNotificationRepository(db),
		DeliveryAttempt: repository.NewDeliveryAttemptRepository(db),
		Preference:      repository.NewPreferenceRepository(db),
	}
}
