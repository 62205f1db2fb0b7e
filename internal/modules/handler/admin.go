package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/appforge/clientportal/internal/modules/serializer"
	"github.com/appforge/clientportal/internal/modules/service"
)

type AdminHandler struct {
	svc service.AdminService
}

func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{svc: s}
}

// GetStats godoc
//
//	@Summary		Portfolio stats
//	@Description	Count projects by status and total quoted and paid amounts
//	@Tags			admin
//	@Produce		json
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=service.AdminStats}
//	@Router			/admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: st})
}

// ListProjects godoc
//
//	@Summary		List all projects
//	@Description	List every project with quotes, updates and milestones
//	@Tags			admin
//	@Produce		json
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/admin/project [get]
func (h *AdminHandler) ListProjects(c *gin.Context) {
	items, err := h.svc.ListProjects(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: items})
}

// GetProject godoc
//
//	@Summary		Get any project
//	@Tags			admin
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/admin/project/{project_id} [get]
func (h *AdminHandler) GetProject(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	p, err := h.svc.GetProject(c.Request.Context(), identity(c), projectID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

type AdminUpdateProjectReq struct {
	Name                *string `json:"name"`
	Description         *string `json:"description"`
	Status              *string `json:"status" example:"In Progress"`
	Progress            *int    `json:"progress" example:"40"`
	PaymentStatus       *string `json:"payment_status" example:"50% Paid"`
	StartDate           *string `json:"start_date" example:"2026-02-01"`
	EstimatedCompletion *string `json:"estimated_completion" example:"2026-06-30"`
}

// UpdateProject godoc
//
//	@Summary		Update any project
//	@Description	Change status, progress, payment status, dates, name or description. Stamps last_update.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string							true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.AdminUpdateProjectReq	true	"UpdateProject payload"
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/admin/project/{project_id} [put]
func (h *AdminHandler) UpdateProject(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	req := AdminUpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	in := service.AdminUpdateProjectInput{
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		Progress:      req.Progress,
		PaymentStatus: req.PaymentStatus,
	}
	var err error
	if in.StartDate, err = optionalDate(req.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if in.EstimatedCompletion, err = optionalDate(req.EstimatedCompletion); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.UpdateProject(c.Request.Context(), identity(c), projectID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

func optionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	return parseDate(*s)
}

// DeleteProject godoc
//
//	@Summary		Delete any project
//	@Tags			admin
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/admin/project/{project_id} [delete]
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProject(c.Request.Context(), identity(c), projectID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// CreateQuote godoc
//
//	@Summary		Quote any project
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.CreateQuoteReq	true	"CreateQuote payload"
//	@Security		SessionAuth
//	@Success		201	{object}	serializer.Response{data=model.Quote}
//	@Router			/admin/project/{project_id}/quote [post]
func (h *AdminHandler) CreateQuote(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	req := CreateQuoteReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	q, err := h.svc.CreateQuote(c.Request.Context(), identity(c), service.CreateQuoteInput{
		ProjectID: projectID,
		Amount:    req.Amount,
		Items:     req.Items,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: q})
}

// CreateUpdate godoc
//
//	@Summary		Post update on any project
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.CreateUpdateReq	true	"CreateUpdate payload"
//	@Security		SessionAuth
//	@Success		201	{object}	serializer.Response{data=model.ProjectUpdate}
//	@Router			/admin/project/{project_id}/update [post]
func (h *AdminHandler) CreateUpdate(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	in, ok := bindUpdate(c, projectID)
	if !ok {
		return
	}

	u, err := h.svc.CreateUpdate(c.Request.Context(), identity(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: u})
}

// CreateMilestone godoc
//
//	@Summary		Add milestone to any project
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.CreateMilestoneReq	true	"CreateMilestone payload"
//	@Security		SessionAuth
//	@Success		201	{object}	serializer.Response{data=model.ProjectMilestone}
//	@Router			/admin/project/{project_id}/milestone [post]
func (h *AdminHandler) CreateMilestone(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	in, ok := bindCreateMilestone(c, projectID)
	if !ok {
		return
	}

	m, err := h.svc.CreateMilestone(c.Request.Context(), identity(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: m})
}

// UpdateMilestone godoc
//
//	@Summary		Update any milestone
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			milestone_id	path	string						true	"Milestone ID"	Format(uuid)
//	@Param			payload			body	handler.UpdateMilestoneReq	true	"UpdateMilestone payload"
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.ProjectMilestone}
//	@Router			/admin/milestone/{milestone_id} [put]
func (h *AdminHandler) UpdateMilestone(c *gin.Context) {
	milestoneID, ok := pathUUID(c, "milestone_id")
	if !ok {
		return
	}
	in, ok := bindUpdateMilestone(c)
	if !ok {
		return
	}

	m, err := h.svc.UpdateMilestone(c.Request.Context(), identity(c), milestoneID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: m})
}

// ListUsers godoc
//
//	@Summary		List users
//	@Tags			admin
//	@Produce		json
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=[]model.User}
//	@Router			/admin/user [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: users})
}

type UpdateUserRoleReq struct {
	Role string `json:"role" binding:"required" example:"admin"`
}

// UpdateUserRole godoc
//
//	@Summary		Change user role
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			user_id	path	string						true	"User ID"	Format(uuid)
//	@Param			payload	body	handler.UpdateUserRoleReq	true	"UpdateUserRole payload"
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/admin/user/{user_id}/role [put]
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	req := UpdateUserRoleReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	u, err := h.svc.UpdateUserRole(c.Request.Context(), identity(c), userID, req.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: u})
}
