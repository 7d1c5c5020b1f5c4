package service

import (
	"testing"

	"github.com/fisker/zhr-backend/internal/model"
)

func strPtr(s string) *string { return &s }

func TestValidateLevels(t *testing.T) {
	tests := []struct {
		name    string
		flow    model.ApprovalFlow
		levels  []model.ApprovalLevel
		wantErr bool
	}{
		{
			name: "自动通过不需要级别",
			flow: model.ApprovalFlowAuto,
		},
		{
			name:    "多级模式零级别非法",
			flow:    model.ApprovalFlowMultiLevel,
			wantErr: true,
		},
		{
			name: "单级直属上级合法",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 1, ApproverType: model.ApproverTypeReportingManager},
			},
		},
		{
			name: "两级合法",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 1, ApproverType: model.ApproverTypeReportingManager},
				{Level: 2, ApproverType: model.ApproverTypeDepartmentHead, DepartmentHeadMode: model.HeadModeAuto},
			},
		},
		{
			name: "超过两级非法",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 1, ApproverType: model.ApproverTypeReportingManager},
				{Level: 2, ApproverType: model.ApproverTypeReportingManager},
				{Level: 3, ApproverType: model.ApproverTypeReportingManager},
			},
			wantErr: true,
		},
		{
			name: "只有第2级缺第1级非法",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 2, ApproverType: model.ApproverTypeReportingManager},
			},
			wantErr: true,
		},
		{
			name: "指定员工缺ID非法",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 1, ApproverType: model.ApproverTypeSpecificEmployee},
			},
			wantErr: true,
		},
		{
			name: "指定员工带ID合法",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 1, ApproverType: model.ApproverTypeSpecificEmployee, SpecificEmployeeID: strPtr("emp-1")},
			},
		},
		{
			name: "指定部门模式缺部门ID非法",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 1, ApproverType: model.ApproverTypeDepartmentHead, DepartmentHeadMode: model.HeadModeSpecific},
			},
			wantErr: true,
		},
		{
			name: "指定子部门模式缺子部门ID非法",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 1, ApproverType: model.ApproverTypeSubDepartmentHead, DepartmentHeadMode: model.HeadModeSpecific},
			},
			wantErr: true,
		},
		{
			name: "auto模式负责人不需要部门ID",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 1, ApproverType: model.ApproverTypeSubDepartmentHead, DepartmentHeadMode: model.HeadModeAuto},
			},
		},
		{
			name:    "未知流转模式非法",
			flow:    model.ApprovalFlow("bogus"),
			wantErr: true,
		},
		{
			name: "未知审批人策略非法",
			flow: model.ApprovalFlowMultiLevel,
			levels: []model.ApprovalLevel{
				{Level: 1, ApproverType: model.ApproverType("bogus")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLevels(tt.flow, tt.levels)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateLevels() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeLevels(t *testing.T) {
	levels := normalizeLevels([]model.ApprovalLevel{
		{Level: 1, ApproverType: model.ApproverTypeDepartmentHead},
		{Level: 2, ApproverType: model.ApproverTypeReportingManager},
	})
	if levels[0].DepartmentHeadMode != model.HeadModeAuto {
		t.Errorf("department-head without mode should default to auto, got %q", levels[0].DepartmentHeadMode)
	}
	if levels[1].DepartmentHeadMode != "" {
		t.Errorf("mode should stay empty for non-head strategies, got %q", levels[1].DepartmentHeadMode)
	}
}
