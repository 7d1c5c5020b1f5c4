package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/repository"
)

// OrganizationHandler 部门与子部门接口
type OrganizationHandler struct {
	departments    *repository.DepartmentRepository
	subDepartments *repository.SubDepartmentRepository
}

func NewOrganizationHandler(
	departments *repository.DepartmentRepository,
	subDepartments *repository.SubDepartmentRepository,
) *OrganizationHandler {
	return &OrganizationHandler{
		departments:    departments,
		subDepartments: subDepartments,
	}
}

type departmentInput struct {
	Name           string  `json:"name" binding:"required"`
	Code           string  `json:"code"`
	HeadEmployeeID *string `json:"headEmployeeId"`
	Status         string  `json:"status"`
}

// CreateDepartment 创建部门
func (h *OrganizationHandler) CreateDepartment(c *gin.Context) {
	var input departmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	dept := &model.Department{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Code:           input.Code,
		HeadEmployeeID: input.HeadEmployeeID,
		Status:         "active",
	}
	if input.Status != "" {
		dept.Status = input.Status
	}

	if err := h.departments.Create(dept); err != nil {
		model.HandleError(c, 500, err, "创建部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(dept))
}

// UpdateDepartment 更新部门
func (h *OrganizationHandler) UpdateDepartment(c *gin.Context) {
	dept, err := h.departments.FindByID(c.Param("id"))
	if err != nil {
		model.HandleError(c, 500, err, "查询部门失败")
		return
	}
	if dept == nil {
		c.JSON(http.StatusNotFound, model.Error(404, "部门不存在"))
		return
	}

	var input departmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}
	dept.Name = input.Name
	dept.Code = input.Code
	dept.HeadEmployeeID = input.HeadEmployeeID
	if input.Status != "" {
		dept.Status = input.Status
	}

	if err := h.departments.Update(dept); err != nil {
		model.HandleError(c, 500, err, "更新部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(dept))
}

// DeleteDepartment 删除部门
func (h *OrganizationHandler) DeleteDepartment(c *gin.Context) {
	if err := h.departments.Delete(c.Param("id")); err != nil {
		model.HandleError(c, 500, err, "删除部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// GetDepartment 查询单个部门
func (h *OrganizationHandler) GetDepartment(c *gin.Context) {
	dept, err := h.departments.FindByID(c.Param("id"))
	if err != nil {
		model.HandleError(c, 500, err, "查询部门失败")
		return
	}
	if dept == nil {
		c.JSON(http.StatusNotFound, model.Error(404, "部门不存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(dept))
}

// ListDepartments 查询全部部门
func (h *OrganizationHandler) ListDepartments(c *gin.Context) {
	depts, err := h.departments.List()
	if err != nil {
		model.HandleError(c, 500, err, "查询部门列表失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(depts))
}

type subDepartmentInput struct {
	DepartmentID   string  `json:"departmentId" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	HeadEmployeeID *string `json:"headEmployeeId"`
	Status         string  `json:"status"`
}

// CreateSubDepartment 创建子部门，所属部门必须存在
func (h *OrganizationHandler) CreateSubDepartment(c *gin.Context) {
	var input subDepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	dept, err := h.departments.FindByID(input.DepartmentID)
	if err != nil {
		model.HandleError(c, 500, err, "查询部门失败")
		return
	}
	if dept == nil {
		c.JSON(http.StatusBadRequest, model.Error(400, "所属部门不存在"))
		return
	}

	sub := &model.SubDepartment{
		ID:             uuid.New().String(),
		DepartmentID:   input.DepartmentID,
		Name:           input.Name,
		HeadEmployeeID: input.HeadEmployeeID,
		Status:         "active",
	}
	if input.Status != "" {
		sub.Status = input.Status
	}

	if err := h.subDepartments.Create(sub); err != nil {
		model.HandleError(c, 500, err, "创建子部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(sub))
}

// UpdateSubDepartment 更新子部门
func (h *OrganizationHandler) UpdateSubDepartment(c *gin.Context) {
	sub, err := h.subDepartments.FindByID(c.Param("id"))
	if err != nil {
		model.HandleError(c, 500, err, "查询子部门失败")
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, model.Error(404, "子部门不存在"))
		return
	}

	var input subDepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}
	sub.Name = input.Name
	sub.HeadEmployeeID = input.HeadEmployeeID
	if input.Status != "" {
		sub.Status = input.Status
	}

	if err := h.subDepartments.Update(sub); err != nil {
		model.HandleError(c, 500, err, "更新子部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(sub))
}

// DeleteSubDepartment 删除子部门
func (h *OrganizationHandler) DeleteSubDepartment(c *gin.Context) {
	if err := h.subDepartments.Delete(c.Param("id")); err != nil {
		model.HandleError(c, 500, err, "删除子部门失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// ListSubDepartments 按部门查询子部门
func (h *OrganizationHandler) ListSubDepartments(c *gin.Context) {
	departmentID := c.Query("department_id")
	if departmentID == "" {
		c.JSON(http.StatusBadRequest, model.Error(400, "缺少 department_id 参数"))
		return
	}

	subs, err := h.subDepartments.ListByDepartment(departmentID)
	if err != nil {
		model.HandleError(c, 500, err, "查询子部门列表失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(subs))
}
