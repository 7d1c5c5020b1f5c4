package service

import (
	"sort"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/repository"
	"github.com/fisker/zhr-backend/internal/workflow"
	"github.com/fisker/zhr-backend/pkg/logger"
)

// ForwardingConfigService 审批流转配置管理
type ForwardingConfigService struct {
	configs *repository.ForwardingConfigRepository
}

func NewForwardingConfigService(configs *repository.ForwardingConfigRepository) *ForwardingConfigService {
	return &ForwardingConfigService{configs: configs}
}

// ForwardingConfigInput 创建配置的输入
type ForwardingConfigInput struct {
	RequestType  model.RequestType     `json:"requestType" binding:"required"`
	ApprovalFlow model.ApprovalFlow    `json:"approvalFlow" binding:"required"`
	Status       string                `json:"status"`
	Levels       []model.ApprovalLevel `json:"levels"`
}

// ForwardingConfigUpdate 更新配置的输入，nil 字段表示不修改
type ForwardingConfigUpdate struct {
	ApprovalFlow *model.ApprovalFlow    `json:"approvalFlow"`
	Status       *string                `json:"status"`
	Levels       *[]model.ApprovalLevel `json:"levels"`
}

// Create 创建配置，每个请求类型只允许一条
func (s *ForwardingConfigService) Create(input *ForwardingConfigInput) (*model.ForwardingConfiguration, error) {
	if !model.IsKnownRequestType(input.RequestType) {
		return nil, workflow.NewValidationError("未知的请求类型: %s", input.RequestType)
	}

	existing, err := s.configs.FindByRequestType(input.RequestType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, workflow.NewValidationError("请求类型 %s 的流转配置已存在", input.RequestType)
	}

	if err := validateLevels(input.ApprovalFlow, input.Levels); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = "active"
	}
	cfg := &model.ForwardingConfiguration{
		RequestType:  input.RequestType,
		ApprovalFlow: input.ApprovalFlow,
		Status:       status,
		Levels:       normalizeLevels(input.Levels),
	}
	if err := s.configs.Create(cfg); err != nil {
		return nil, err
	}
	logger.Infof("Forwarding configuration created: type=%s flow=%s levels=%d",
		cfg.RequestType, cfg.ApprovalFlow, len(cfg.Levels))
	return cfg, nil
}

// Update 更新配置；提供级别列表时全量替换，省略时沿用现有级别
// 校验针对最终生效的流转模式与级别组合
func (s *ForwardingConfigService) Update(rt model.RequestType, input *ForwardingConfigUpdate) (*model.ForwardingConfiguration, error) {
	cfg, err := s.configs.FindByRequestType(rt)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, workflow.NewValidationError("请求类型 %s 没有流转配置", rt)
	}

	flow := cfg.ApprovalFlow
	if input.ApprovalFlow != nil {
		flow = *input.ApprovalFlow
	}

	effectiveLevels := cfg.Levels
	var replacement []model.ApprovalLevel
	if input.Levels != nil {
		replacement = normalizeLevels(*input.Levels)
		effectiveLevels = replacement
	}

	if err := validateLevels(flow, effectiveLevels); err != nil {
		return nil, err
	}

	cfg.ApprovalFlow = flow
	if input.Status != nil {
		cfg.Status = *input.Status
	}

	var newLevels []model.ApprovalLevel
	if input.Levels != nil {
		newLevels = replacement
	}
	if err := s.configs.ReplaceLevels(cfg, newLevels); err != nil {
		return nil, err
	}
	logger.Infof("Forwarding configuration updated: type=%s flow=%s", cfg.RequestType, cfg.ApprovalFlow)

	return s.configs.FindByRequestType(rt)
}

// Delete 删除配置；已创建请求上的审批人是历史快照，不受影响
func (s *ForwardingConfigService) Delete(rt model.RequestType) error {
	cfg, err := s.configs.FindByRequestType(rt)
	if err != nil {
		return err
	}
	if cfg == nil {
		return workflow.NewValidationError("请求类型 %s 没有流转配置", rt)
	}
	if err := s.configs.Delete(cfg); err != nil {
		return err
	}
	logger.Infof("Forwarding configuration deleted: type=%s", rt)
	return nil
}

func (s *ForwardingConfigService) Get(rt model.RequestType) (*model.ForwardingConfiguration, error) {
	return s.configs.FindByRequestType(rt)
}

func (s *ForwardingConfigService) List() ([]model.ForwardingConfiguration, error) {
	return s.configs.List()
}

// validateLevels 校验流转模式与级别组合
// 多级模式必须有1到2个级别且从第1级起连续；各策略的条件必填字段齐全
func validateLevels(flow model.ApprovalFlow, levels []model.ApprovalLevel) error {
	switch flow {
	case model.ApprovalFlowAuto:
		return nil
	case model.ApprovalFlowMultiLevel:
	default:
		return workflow.NewValidationError("未知的流转模式: %s", flow)
	}

	if len(levels) == 0 {
		return workflow.NewValidationError("多级审批至少需要一个审批级")
	}
	if len(levels) > model.MaxApprovalLevels {
		return workflow.NewValidationError("审批级数不能超过 %d", model.MaxApprovalLevels)
	}

	sorted := make([]model.ApprovalLevel, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	for i, level := range sorted {
		if level.Level != i+1 {
			return workflow.NewValidationError("审批级必须从第1级起连续编号")
		}
		if err := validateLevel(&level); err != nil {
			return err
		}
	}
	return nil
}

func validateLevel(level *model.ApprovalLevel) error {
	switch level.ApproverType {
	case model.ApproverTypeReportingManager:
		return nil
	case model.ApproverTypeSpecificEmployee:
		if level.SpecificEmployeeID == nil || *level.SpecificEmployeeID == "" {
			return workflow.NewValidationError("第%d级：指定员工策略必须提供员工ID", level.Level)
		}
		return nil
	case model.ApproverTypeDepartmentHead:
		if level.DepartmentHeadMode == model.HeadModeSpecific &&
			(level.DepartmentID == nil || *level.DepartmentID == "") {
			return workflow.NewValidationError("第%d级：指定部门模式必须提供部门ID", level.Level)
		}
		return nil
	case model.ApproverTypeSubDepartmentHead:
		if level.DepartmentHeadMode == model.HeadModeSpecific &&
			(level.SubDepartmentID == nil || *level.SubDepartmentID == "") {
			return workflow.NewValidationError("第%d级：指定子部门模式必须提供子部门ID", level.Level)
		}
		return nil
	}
	return workflow.NewValidationError("第%d级：未知的审批人策略 %s", level.Level, level.ApproverType)
}

// normalizeLevels 负责人类策略的部门选择方式默认 auto
func normalizeLevels(levels []model.ApprovalLevel) []model.ApprovalLevel {
	out := make([]model.ApprovalLevel, len(levels))
	copy(out, levels)
	for i := range out {
		if (out[i].ApproverType == model.ApproverTypeDepartmentHead ||
			out[i].ApproverType == model.ApproverTypeSubDepartmentHead) &&
			out[i].DepartmentHeadMode == "" {
			out[i].DepartmentHeadMode = model.HeadModeAuto
		}
	}
	return out
}
