package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/service"
	"github.com/fisker/zhr-backend/internal/workflow"
)

// ForwardingConfigHandler 审批流转配置接口
type ForwardingConfigHandler struct {
	service *service.ForwardingConfigService
}

func NewForwardingConfigHandler(configService *service.ForwardingConfigService) *ForwardingConfigHandler {
	return &ForwardingConfigHandler{service: configService}
}

// Create 创建配置
func (h *ForwardingConfigHandler) Create(c *gin.Context) {
	var input service.ForwardingConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	cfg, err := h.service.Create(&input)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(cfg))
}

// Update 更新配置
func (h *ForwardingConfigHandler) Update(c *gin.Context) {
	rt := model.RequestType(c.Param("requestType"))

	var input service.ForwardingConfigUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	cfg, err := h.service.Update(rt, &input)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(cfg))
}

// Delete 删除配置
func (h *ForwardingConfigHandler) Delete(c *gin.Context) {
	rt := model.RequestType(c.Param("requestType"))
	if err := h.service.Delete(rt); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// Get 查询单个配置
func (h *ForwardingConfigHandler) Get(c *gin.Context) {
	rt := model.RequestType(c.Param("requestType"))
	cfg, err := h.service.Get(rt)
	if err != nil {
		model.HandleError(c, 500, err, "查询流转配置失败")
		return
	}
	if cfg == nil {
		c.JSON(http.StatusNotFound, model.Error(404, "流转配置不存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(cfg))
}

// List 查询全部配置
func (h *ForwardingConfigHandler) List(c *gin.Context) {
	cfgs, err := h.service.List()
	if err != nil {
		model.HandleError(c, 500, err, "查询流转配置失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(cfgs))
}

// respondWorkflowError 审批领域错误到HTTP状态码的映射
func respondWorkflowError(c *gin.Context, err error) {
	var validationErr *workflow.ValidationError
	var resolutionErr *workflow.ResolutionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, model.Error(400, validationErr.Message))
	case errors.As(err, &resolutionErr):
		// 解析失败必须指明失败的级别，便于管理员修正配置
		c.JSON(http.StatusUnprocessableEntity, model.Error(422, resolutionErr.Error()))
	case errors.Is(err, workflow.ErrForbidden):
		c.JSON(http.StatusForbidden, model.Error(403, "您不是该级审批人"))
	case errors.Is(err, workflow.ErrRequestRejected):
		c.JSON(http.StatusConflict, model.Error(409, "请求已被拒绝，不能再操作"))
	case errors.Is(err, workflow.ErrRequestApproved):
		c.JSON(http.StatusConflict, model.Error(409, "请求已批准，不能再操作"))
	case errors.Is(err, workflow.ErrNoPendingApproval):
		c.JSON(http.StatusConflict, model.Error(409, "没有待处理的审批"))
	case errors.Is(err, workflow.ErrLevelNotActive):
		c.JSON(http.StatusConflict, model.Error(409, "该级别当前不可操作"))
	case errors.Is(err, workflow.ErrNoApproverConfigured):
		c.JSON(http.StatusConflict, model.Error(409, "该级别没有配置审批人"))
	case errors.Is(err, workflow.ErrDecisionConflict):
		c.JSON(http.StatusConflict, model.Error(409, "该审批已被其他操作处理，请刷新后重试"))
	case errors.Is(err, service.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, model.Error(404, "请求不存在"))
	default:
		model.HandleError(c, 500, err, "操作失败")
	}
}
