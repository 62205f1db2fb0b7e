package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/appforge/clientportal/internal/modules/serializer"
	"github.com/appforge/clientportal/internal/modules/service"
)

type QuoteHandler struct {
	svc service.QuoteService
}

func NewQuoteHandler(s service.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: s}
}

type CreateQuoteReq struct {
	Amount float64  `json:"amount" example:"1500"`
	Items  []string `json:"items" example:"Design,Development"`
}

// CreateQuote godoc
//
//	@Summary		Create quote
//	@Description	Add a quote to a project
//	@Tags			quote
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.CreateQuoteReq	true	"CreateQuote payload"
//	@Security		SessionAuth
//	@Success		201	{object}	serializer.Response{data=model.Quote}
//	@Router			/project/{project_id}/quote [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	req := CreateQuoteReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	q, err := h.svc.Create(c.Request.Context(), identity(c), service.CreateQuoteInput{
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

type UpdateQuoteReq struct {
	Amount *float64 `json:"amount" example:"1800"`
	Items  []string `json:"items"`
}

// UpdateQuote godoc
//
//	@Summary		Update quote
//	@Description	Change a quote's amount or line items. Items replace the current list when present.
//	@Tags			quote
//	@Accept			json
//	@Produce		json
//	@Param			quote_id	path	string					true	"Quote ID"	Format(uuid)
//	@Param			payload		body	handler.UpdateQuoteReq	true	"UpdateQuote payload"
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.Quote}
//	@Router			/quote/{quote_id} [put]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	quoteID, ok := pathUUID(c, "quote_id")
	if !ok {
		return
	}
	req := UpdateQuoteReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	q, err := h.svc.Update(c.Request.Context(), identity(c), quoteID, service.UpdateQuoteInput{
		Amount: req.Amount,
		Items:  req.Items,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: q})
}
