package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/appforge/clientportal/internal/modules/serializer"
	"github.com/appforge/clientportal/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List the caller's projects, newest first
//	@Tags			project
//	@Produce		json
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/project [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: items})
}

// GetSummary godoc
//
//	@Summary		Project summary
//	@Description	Count the caller's projects by status
//	@Tags			project
//	@Produce		json
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectSummary}
//	@Router			/project/summary [get]
func (h *ProjectHandler) GetSummary(c *gin.Context) {
	out, err := h.svc.Summary(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type CreateProjectReq struct {
	Name        string `json:"name" binding:"required" example:"Mobile App"`
	Description string `json:"description" example:"iOS and Android client"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project owned by the caller. It starts Pending, Unpaid, at 0% progress.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateProjectReq	true	"CreateProject payload"
//	@Security		SessionAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/project [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.Create(c.Request.Context(), identity(c), service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: p})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Description	Get a project with its quotes, updates, milestones and feedback
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/project/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), identity(c), projectID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

type UpdateProjectReq struct {
	Name        *string `json:"name" example:"Mobile App v2"`
	Description *string `json:"description"`
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Change a project's name or description
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.UpdateProjectReq	true	"UpdateProject payload"
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/project/{project_id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	req := UpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), identity(c), projectID, service.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project and everything attached to it
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/project/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), identity(c), projectID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
