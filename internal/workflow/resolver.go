package workflow

import (
	"github.com/fisker/zhr-backend/internal/model"
)

// Directory 审批人解析依赖的组织目录查询，未找到时返回 (nil, nil)
type Directory interface {
	// EmployeeByID 按员工ID查询
	EmployeeByID(id string) (*model.Employee, error)

	// DepartmentHead 查询部门负责人
	DepartmentHead(departmentID string) (*model.Employee, error)

	// SubDepartmentHead 查询子部门负责人
	SubDepartmentHead(subDepartmentID string) (*model.Employee, error)
}

// Resolver 审批人解析器
// 根据一条级别配置和申请人的组织属性计算出具体审批人（用户ID），无副作用
type Resolver struct {
	dir Directory
}

// NewResolver 创建审批人解析器
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve 解析某一级的审批人，返回审批人的用户ID
// 解析不出审批人时返回 *ResolutionError，调用方必须中止整个提交事务
func (r *Resolver) Resolve(level *model.ApprovalLevel, org model.OrgAttributes) (string, error) {
	switch level.ApproverType {
	case model.ApproverTypeReportingManager:
		return r.resolveReportingManager(level, org)
	case model.ApproverTypeSpecificEmployee:
		return r.resolveSpecificEmployee(level)
	case model.ApproverTypeDepartmentHead:
		return r.resolveDepartmentHead(level, org)
	case model.ApproverTypeSubDepartmentHead:
		return r.resolveSubDepartmentHead(level, org)
	}
	return "", &ResolutionError{
		Level:        level.Level,
		ApproverType: level.ApproverType,
		Reason:       "unknown approver type",
	}
}

func (r *Resolver) resolveReportingManager(level *model.ApprovalLevel, org model.OrgAttributes) (string, error) {
	if org.ReportingManagerID == nil || *org.ReportingManagerID == "" {
		return "", r.failed(level, "employee has no reporting manager")
	}
	manager, err := r.dir.EmployeeByID(*org.ReportingManagerID)
	if err != nil {
		return "", err
	}
	if manager == nil {
		return "", r.failed(level, "reporting manager employee record not found")
	}
	return r.userOf(level, manager)
}

func (r *Resolver) resolveSpecificEmployee(level *model.ApprovalLevel) (string, error) {
	if level.SpecificEmployeeID == nil || *level.SpecificEmployeeID == "" {
		return "", r.failed(level, "no specific employee configured")
	}
	emp, err := r.dir.EmployeeByID(*level.SpecificEmployeeID)
	if err != nil {
		return "", err
	}
	if emp == nil {
		return "", r.failed(level, "configured employee not found")
	}
	return r.userOf(level, emp)
}

func (r *Resolver) resolveDepartmentHead(level *model.ApprovalLevel, org model.OrgAttributes) (string, error) {
	var deptID *string
	if level.DepartmentHeadMode == model.HeadModeSpecific {
		deptID = level.DepartmentID
	} else {
		deptID = org.DepartmentID
	}
	if deptID == nil || *deptID == "" {
		return "", r.failed(level, "no department to resolve a head from")
	}
	head, err := r.dir.DepartmentHead(*deptID)
	if err != nil {
		return "", err
	}
	if head == nil {
		return "", r.failed(level, "department has no head configured")
	}
	return r.userOf(level, head)
}

func (r *Resolver) resolveSubDepartmentHead(level *model.ApprovalLevel, org model.OrgAttributes) (string, error) {
	var subDeptID *string
	if level.DepartmentHeadMode == model.HeadModeSpecific {
		subDeptID = level.SubDepartmentID
	} else {
		subDeptID = org.SubDepartmentID
	}
	if subDeptID == nil || *subDeptID == "" {
		return "", r.failed(level, "no sub-department to resolve a head from")
	}
	head, err := r.dir.SubDepartmentHead(*subDeptID)
	if err != nil {
		return "", err
	}
	if head == nil {
		return "", r.failed(level, "sub-department has no head configured")
	}
	return r.userOf(level, head)
}

// userOf 审批人必须有关联的登录账号，否则视为解析失败
func (r *Resolver) userOf(level *model.ApprovalLevel, emp *model.Employee) (string, error) {
	if emp.UserID == nil || *emp.UserID == "" {
		return "", r.failed(level, "employee "+emp.ID+" has no linked user account")
	}
	return *emp.UserID, nil
}

func (r *Resolver) failed(level *model.ApprovalLevel, reason string) error {
	return &ResolutionError{
		Level:        level.Level,
		ApproverType: level.ApproverType,
		Reason:       reason,
	}
}
