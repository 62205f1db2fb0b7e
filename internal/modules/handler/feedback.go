package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/appforge/clientportal/internal/modules/serializer"
	"github.com/appforge/clientportal/internal/modules/service"
)

// maxAttachmentBytes bounds a single feedback attachment.
const maxAttachmentBytes = 10 << 20

type FeedbackHandler struct {
	svc service.FeedbackService
}

func NewFeedbackHandler(s service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: s}
}

type CreateFeedbackReq struct {
	Message string `form:"message" json:"message" binding:"required" example:"The logo looks blurry on Android"`
}

// CreateFeedback godoc
//
//	@Summary		Leave feedback
//	@Description	Leave feedback on a project. Supports JSON and multipart/form-data; in multipart mode an optional "file" field is stored as an attachment.
//	@Tags			feedback
//	@Accept			json
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			project_id	path		string						true	"Project ID"	Format(uuid)
//	@Param			payload		body		handler.CreateFeedbackReq	false	"CreateFeedback payload (Content-Type: application/json)"
//	@Param			message		formData	string						false	"Feedback message (Content-Type: multipart/form-data)"
//	@Param			file		formData	file						false	"Attachment (Content-Type: multipart/form-data)"
//	@Security		SessionAuth
//	@Success		201	{object}	serializer.Response{data=model.Feedback}
//	@Router			/project/{project_id}/feedback [post]
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	req := CreateFeedbackReq{}
	var file *multipart.FileHeader
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAttachmentBytes+(1<<20))
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
		if fh, err := c.FormFile("file"); err == nil {
			if fh.Size > maxAttachmentBytes {
				c.JSON(http.StatusBadRequest, serializer.ParamErr("attachment too large", nil))
				return
			}
			file = fh
		} else if err != http.ErrMissingFile {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	f, err := h.svc.Create(c.Request.Context(), identity(c), service.CreateFeedbackInput{
		ProjectID: projectID,
		Message:   req.Message,
		File:      file,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: f})
}
