package workflow

import (
	"errors"
	"testing"

	"github.com/fisker/zhr-backend/internal/model"
)

type fakeDirectory struct {
	employees map[string]*model.Employee
	deptHeads map[string]*model.Employee
	subHeads  map[string]*model.Employee
}

func (d *fakeDirectory) EmployeeByID(id string) (*model.Employee, error) {
	return d.employees[id], nil
}

func (d *fakeDirectory) DepartmentHead(departmentID string) (*model.Employee, error) {
	return d.deptHeads[departmentID], nil
}

func (d *fakeDirectory) SubDepartmentHead(subDepartmentID string) (*model.Employee, error) {
	return d.subHeads[subDepartmentID], nil
}

func strPtr(s string) *string { return &s }

func employeeWithUser(id, userID string) *model.Employee {
	return &model.Employee{ID: id, UserID: strPtr(userID)}
}

func TestResolverResolve(t *testing.T) {
	dir := &fakeDirectory{
		employees: map[string]*model.Employee{
			"emp-manager":  employeeWithUser("emp-manager", "user-manager"),
			"emp-specific": employeeWithUser("emp-specific", "user-specific"),
			"emp-no-user":  {ID: "emp-no-user"},
		},
		deptHeads: map[string]*model.Employee{
			"dept-1": employeeWithUser("emp-head", "user-head"),
			"dept-2": employeeWithUser("emp-head2", "user-head2"),
		},
		subHeads: map[string]*model.Employee{
			"sub-1": employeeWithUser("emp-subhead", "user-subhead"),
		},
	}
	resolver := NewResolver(dir)

	org := model.OrgAttributes{
		EmployeeID:         "emp-self",
		DepartmentID:       strPtr("dept-1"),
		SubDepartmentID:    strPtr("sub-1"),
		ReportingManagerID: strPtr("emp-manager"),
	}

	tests := []struct {
		name     string
		level    model.ApprovalLevel
		org      model.OrgAttributes
		wantUser string
		wantErr  bool
	}{
		{
			name:     "直属上级",
			level:    model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
			org:      org,
			wantUser: "user-manager",
		},
		{
			name:    "直属上级未设置",
			level:   model.ApprovalLevel{Level: 1, ApproverType: model.ApproverTypeReportingManager},
			org:     model.OrgAttributes{EmployeeID: "emp-self"},
			wantErr: true,
		},
		{
			name: "上级没有登录账号",
			level: model.ApprovalLevel{
				Level: 1, ApproverType: model.ApproverTypeReportingManager,
			},
			org:     model.OrgAttributes{EmployeeID: "emp-self", ReportingManagerID: strPtr("emp-no-user")},
			wantErr: true,
		},
		{
			name: "指定员工",
			level: model.ApprovalLevel{
				Level: 1, ApproverType: model.ApproverTypeSpecificEmployee,
				SpecificEmployeeID: strPtr("emp-specific"),
			},
			org:      org,
			wantUser: "user-specific",
		},
		{
			name: "指定员工不存在",
			level: model.ApprovalLevel{
				Level: 1, ApproverType: model.ApproverTypeSpecificEmployee,
				SpecificEmployeeID: strPtr("emp-missing"),
			},
			org:     org,
			wantErr: true,
		},
		{
			name: "指定员工ID缺失",
			level: model.ApprovalLevel{
				Level: 1, ApproverType: model.ApproverTypeSpecificEmployee,
			},
			org:     org,
			wantErr: true,
		},
		{
			name: "部门负责人auto模式取申请人部门",
			level: model.ApprovalLevel{
				Level: 1, ApproverType: model.ApproverTypeDepartmentHead,
				DepartmentHeadMode: model.HeadModeAuto,
			},
			org:      org,
			wantUser: "user-head",
		},
		{
			name: "部门负责人specific模式取配置部门",
			level: model.ApprovalLevel{
				Level: 1, ApproverType: model.ApproverTypeDepartmentHead,
				DepartmentHeadMode: model.HeadModeSpecific,
				DepartmentID:       strPtr("dept-2"),
			},
			org:      org,
			wantUser: "user-head2",
		},
		{
			name: "部门未设置负责人",
			level: model.ApprovalLevel{
				Level: 1, ApproverType: model.ApproverTypeDepartmentHead,
				DepartmentHeadMode: model.HeadModeSpecific,
				DepartmentID:       strPtr("dept-empty"),
			},
			org:     org,
			wantErr: true,
		},
		{
			name: "子部门负责人",
			level: model.ApprovalLevel{
				Level: 2, ApproverType: model.ApproverTypeSubDepartmentHead,
				DepartmentHeadMode: model.HeadModeAuto,
			},
			org:      org,
			wantUser: "user-subhead",
		},
		{
			name: "申请人无子部门",
			level: model.ApprovalLevel{
				Level: 2, ApproverType: model.ApproverTypeSubDepartmentHead,
				DepartmentHeadMode: model.HeadModeAuto,
			},
			org:     model.OrgAttributes{EmployeeID: "emp-self"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(&tt.level, tt.org)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected resolution error, got user %q", got)
				}
				var resErr *ResolutionError
				if !errors.As(err, &resErr) {
					t.Fatalf("expected *ResolutionError, got %T: %v", err, err)
				}
				if resErr.Level != tt.level.Level {
					t.Errorf("error level = %d, want %d", resErr.Level, tt.level.Level)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantUser {
				t.Errorf("resolved user = %q, want %q", got, tt.wantUser)
			}
		})
	}
}
