package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/appforge/clientportal/internal/modules/serializer"
	"github.com/appforge/clientportal/internal/modules/service"
)

type UpdateHandler struct {
	svc service.ProjectUpdateService
}

func NewUpdateHandler(s service.ProjectUpdateService) *UpdateHandler {
	return &UpdateHandler{svc: s}
}

type CreateUpdateReq struct {
	Message string `json:"message" binding:"required" example:"Login screen shipped to staging"`
	Date    string `json:"date" example:"2026-03-01"`
}

// CreateUpdate godoc
//
//	@Summary		Post progress update
//	@Description	Add a dated progress note to a project. The project's last_update moves with it.
//	@Tags			update
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.CreateUpdateReq	true	"CreateUpdate payload"
//	@Security		SessionAuth
//	@Success		201	{object}	serializer.Response{data=model.ProjectUpdate}
//	@Router			/project/{project_id}/update [post]
func (h *UpdateHandler) CreateUpdate(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	in, ok := bindUpdate(c, projectID)
	if !ok {
		return
	}

	u, err := h.svc.Create(c.Request.Context(), identity(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: u})
}

func bindUpdate(c *gin.Context, projectID uuid.UUID) (service.CreateUpdateInput, bool) {
	req := CreateUpdateReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return service.CreateUpdateInput{}, false
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return service.CreateUpdateInput{}, false
	}
	return service.CreateUpdateInput{ProjectID: projectID, Message: req.Message, Date: date}, true
}
