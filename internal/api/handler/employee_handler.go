package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/repository"
)

// EmployeeHandler 员工档案接口
type EmployeeHandler struct {
	employees *repository.EmployeeRepository
}

func NewEmployeeHandler(employees *repository.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

type employeeInput struct {
	EmployeeNumber     string  `json:"employeeNumber" binding:"required"`
	UserID             *string `json:"userId"`
	FullName           string  `json:"fullName" binding:"required"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`
	Position           string  `json:"position"`
	DepartmentID       *string `json:"departmentId"`
	SubDepartmentID    *string `json:"subDepartmentId"`
	ReportingManagerID *string `json:"reportingManagerId"`
	Status             string  `json:"status"`
}

func (in *employeeInput) apply(emp *model.Employee) {
	emp.EmployeeNumber = in.EmployeeNumber
	emp.UserID = in.UserID
	emp.FullName = in.FullName
	emp.Email = in.Email
	emp.Phone = in.Phone
	emp.Position = in.Position
	emp.DepartmentID = in.DepartmentID
	emp.SubDepartmentID = in.SubDepartmentID
	emp.ReportingManagerID = in.ReportingManagerID
	if in.Status != "" {
		emp.Status = in.Status
	}
}

// Create 创建员工档案
func (h *EmployeeHandler) Create(c *gin.Context) {
	var input employeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	emp := &model.Employee{ID: uuid.New().String(), Status: "active"}
	input.apply(emp)

	if err := h.employees.Create(emp); err != nil {
		model.HandleError(c, 500, err, "创建员工失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(emp))
}

// Update 更新员工档案
func (h *EmployeeHandler) Update(c *gin.Context) {
	emp, err := h.employees.EmployeeByID(c.Param("id"))
	if err != nil {
		model.HandleError(c, 500, err, "查询员工失败")
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, model.Error(404, "员工不存在"))
		return
	}

	var input employeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}
	input.apply(emp)

	if err := h.employees.Update(emp); err != nil {
		model.HandleError(c, 500, err, "更新员工失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(emp))
}

// Delete 删除员工档案
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employees.Delete(c.Param("id")); err != nil {
		model.HandleError(c, 500, err, "删除员工失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// Get 查询单个员工
func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.employees.EmployeeByID(c.Param("id"))
	if err != nil {
		model.HandleError(c, 500, err, "查询员工失败")
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, model.Error(404, "员工不存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(emp))
}

// List 查询员工列表，支持按部门过滤
func (h *EmployeeHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)

	var departmentID *string
	if dept := c.Query("department_id"); dept != "" {
		departmentID = &dept
	}

	total, employees, err := h.employees.List(departmentID, page, pageSize)
	if err != nil {
		model.HandleError(c, 500, err, "查询员工列表失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(model.PaginatedResponse{
		Data:       employees,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}))
}
