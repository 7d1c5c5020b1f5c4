package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisker/zhr-backend/internal/api/middleware"
	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/service"
)

// Binder 把请求体解析成具体请求实体
// defaultEmployeeID 是操作人自己的员工ID，请求体未指定员工时使用
type Binder[PT model.Approvable] func(c *gin.Context, defaultEmployeeID string) (PT, error)

// RequestHandler 单个请求类型的审批接口，六类共用同一实现
type RequestHandler[PT model.Approvable] struct {
	service *service.RequestService[PT]
	bind    Binder[PT]
}

func NewRequestHandler[PT model.Approvable](svc *service.RequestService[PT], bind Binder[PT]) *RequestHandler[PT] {
	return &RequestHandler[PT]{service: svc, bind: bind}
}

// decisionBody 审批动作请求体
type decisionBody struct {
	Level    int    `json:"level"`
	Reason   string `json:"reason"`
	Override bool   `json:"override"`
}

// Submit 提交请求
func (h *RequestHandler[PT]) Submit(c *gin.Context) {
	actorUserID := middleware.CurrentUserID(c)

	emp, err := h.service.EmployeeForUser(actorUserID)
	if err != nil {
		model.HandleError(c, 500, err, "查询员工档案失败")
		return
	}
	defaultEmployeeID := ""
	if emp != nil {
		defaultEmployeeID = emp.ID
	}

	req, err := h.bind(c, defaultEmployeeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}
	if req.GetEmployeeID() == "" {
		c.JSON(http.StatusBadRequest, model.Error(400, "无法确定申请员工：当前账号没有员工档案且请求未指定员工"))
		return
	}

	if err := h.service.Submit(c.Request.Context(), req, actorUserID); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(req))
}

// Approve 批准
func (h *RequestHandler[PT]) Approve(c *gin.Context) {
	var body decisionBody
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	// 越权代批只对管理类角色生效
	override := body.Override && middleware.IsAdminRole(c)

	req, err := h.service.Approve(c.Request.Context(), c.Param("id"), body.Level, middleware.CurrentUserID(c), override)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(req))
}

// Reject 拒绝
func (h *RequestHandler[PT]) Reject(c *gin.Context) {
	var body decisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	override := body.Override && middleware.IsAdminRole(c)

	req, err := h.service.Reject(c.Request.Context(), c.Param("id"), body.Level, middleware.CurrentUserID(c), body.Reason, override)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(req))
}

// Get 查询单个请求
func (h *RequestHandler[PT]) Get(c *gin.Context) {
	req, err := h.service.Get(c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(req))
}

// List 查询请求列表
// 普通用户只能看自己的，管理类角色可以看全部
func (h *RequestHandler[PT]) List(c *gin.Context) {
	status := model.RequestStatus(c.Query("status"))
	page, pageSize := pagination(c)

	var (
		total int64
		rows  []PT
		err   error
	)
	if middleware.IsAdminRole(c) && c.Query("mine") != "true" {
		total, rows, err = h.service.List(status, page, pageSize)
	} else {
		emp, empErr := h.service.EmployeeForUser(middleware.CurrentUserID(c))
		if empErr != nil {
			model.HandleError(c, 500, empErr, "查询员工档案失败")
			return
		}
		if emp == nil {
			c.JSON(http.StatusOK, model.Success(model.PaginatedResponse{Data: []PT{}, Page: page, PageSize: pageSize}))
			return
		}
		total, rows, err = h.service.ListByEmployee(emp.ID, status, page, pageSize)
	}
	if err != nil {
		model.HandleError(c, 500, err, "查询请求列表失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(model.PaginatedResponse{
		Data:       rows,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}))
}

// Pending 当前用户在该类型下的待审批列表
func (h *RequestHandler[PT]) Pending(c *gin.Context) {
	rows, err := h.service.PendingForApprover(middleware.CurrentUserID(c))
	if err != nil {
		model.HandleError(c, 500, err, "查询待审批列表失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(rows))
}

// PendingFor 审批收件箱聚合用
func (h *RequestHandler[PT]) PendingFor(userID string) (interface{}, int, error) {
	rows, err := h.service.PendingForApprover(userID)
	return rows, len(rows), err
}

// RequestRoutes 类型分发接口，每个请求类型注册一个实现
type RequestRoutes interface {
	Submit(c *gin.Context)
	Approve(c *gin.Context)
	Reject(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Pending(c *gin.Context)
	PendingFor(userID string) (interface{}, int, error)
}

// RequestDispatcher 按 :requestType 路径参数分发到对应类型的处理器
type RequestDispatcher struct {
	handlers map[model.RequestType]RequestRoutes
}

func NewRequestDispatcher() *RequestDispatcher {
	return &RequestDispatcher{handlers: make(map[model.RequestType]RequestRoutes)}
}

func (d *RequestDispatcher) Register(rt model.RequestType, routes RequestRoutes) {
	d.handlers[rt] = routes
}

func (d *RequestDispatcher) lookup(c *gin.Context) RequestRoutes {
	rt := model.RequestType(c.Param("requestType"))
	routes, ok := d.handlers[rt]
	if !ok {
		c.JSON(http.StatusNotFound, model.Error(404, "未知的请求类型: "+string(rt)))
		return nil
	}
	return routes
}

func (d *RequestDispatcher) Submit(c *gin.Context) {
	if routes := d.lookup(c); routes != nil {
		routes.Submit(c)
	}
}

func (d *RequestDispatcher) Approve(c *gin.Context) {
	if routes := d.lookup(c); routes != nil {
		routes.Approve(c)
	}
}

func (d *RequestDispatcher) Reject(c *gin.Context) {
	if routes := d.lookup(c); routes != nil {
		routes.Reject(c)
	}
}

func (d *RequestDispatcher) Get(c *gin.Context) {
	if routes := d.lookup(c); routes != nil {
		routes.Get(c)
	}
}

func (d *RequestDispatcher) List(c *gin.Context) {
	if routes := d.lookup(c); routes != nil {
		routes.List(c)
	}
}

func (d *RequestDispatcher) Pending(c *gin.Context) {
	if routes := d.lookup(c); routes != nil {
		routes.Pending(c)
	}
}

// Inbox 跨类型的审批收件箱
func (d *RequestDispatcher) Inbox(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	items := make(map[string]interface{}, len(d.handlers))
	total := 0
	for rt, routes := range d.handlers {
		rows, count, err := routes.PendingFor(userID)
		if err != nil {
			model.HandleError(c, 500, err, "查询审批收件箱失败")
			return
		}
		if count > 0 {
			items[string(rt)] = rows
			total += count
		}
	}

	c.JSON(http.StatusOK, model.Success(gin.H{
		"total": total,
		"items": items,
	}))
}
