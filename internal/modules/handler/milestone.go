package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/appforge/clientportal/internal/modules/serializer"
	"github.com/appforge/clientportal/internal/modules/service"
)

type MilestoneHandler struct {
	svc service.MilestoneService
}

func NewMilestoneHandler(s service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{svc: s}
}

type CreateMilestoneReq struct {
	Name       string `json:"name" binding:"required" example:"Beta release"`
	TargetDate string `json:"target_date" binding:"required" example:"2026-05-01"`
}

// CreateMilestone godoc
//
//	@Summary		Create milestone
//	@Description	Add a milestone to a project
//	@Tags			milestone
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.CreateMilestoneReq	true	"CreateMilestone payload"
//	@Security		SessionAuth
//	@Success		201	{object}	serializer.Response{data=model.ProjectMilestone}
//	@Router			/project/{project_id}/milestone [post]
func (h *MilestoneHandler) CreateMilestone(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	in, ok := bindCreateMilestone(c, projectID)
	if !ok {
		return
	}

	m, err := h.svc.Create(c.Request.Context(), identity(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: m})
}

type UpdateMilestoneReq struct {
	Name       *string `json:"name"`
	TargetDate *string `json:"target_date" example:"2026-06-01"`
	Completed  *bool   `json:"completed" example:"true"`
}

// UpdateMilestone godoc
//
//	@Summary		Update milestone
//	@Description	Rename, reschedule or complete a milestone
//	@Tags			milestone
//	@Accept			json
//	@Produce		json
//	@Param			milestone_id	path	string						true	"Milestone ID"	Format(uuid)
//	@Param			payload			body	handler.UpdateMilestoneReq	true	"UpdateMilestone payload"
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.ProjectMilestone}
//	@Router			/milestone/{milestone_id} [put]
func (h *MilestoneHandler) UpdateMilestone(c *gin.Context) {
	milestoneID, ok := pathUUID(c, "milestone_id")
	if !ok {
		return
	}
	in, ok := bindUpdateMilestone(c)
	if !ok {
		return
	}

	m, err := h.svc.Update(c.Request.Context(), identity(c), milestoneID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: m})
}

func bindCreateMilestone(c *gin.Context, projectID uuid.UUID) (service.CreateMilestoneInput, bool) {
	req := CreateMilestoneReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return service.CreateMilestoneInput{}, false
	}
	target, err := parseDate(req.TargetDate)
	if err == nil && target == nil {
		err = errors.New("target_date is required")
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return service.CreateMilestoneInput{}, false
	}
	return service.CreateMilestoneInput{ProjectID: projectID, Name: req.Name, TargetDate: *target}, true
}

func bindUpdateMilestone(c *gin.Context) (service.UpdateMilestoneInput, bool) {
	req := UpdateMilestoneReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return service.UpdateMilestoneInput{}, false
	}
	in := service.UpdateMilestoneInput{Name: req.Name, Completed: req.Completed}
	if req.TargetDate != nil {
		target, err := parseDate(*req.TargetDate)
		if err == nil && target == nil {
			err = errors.New("target_date cannot be empty")
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return service.UpdateMilestoneInput{}, false
		}
		in.TargetDate = target
	}
	return in, true
}
