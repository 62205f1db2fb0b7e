package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/appforge/clientportal/internal/config"
	"github.com/appforge/clientportal/internal/modules/serializer"
)

type SetupHandler struct {
	cfg *config.Config
}

func NewSetupHandler(cfg *config.Config) *SetupHandler {
	return &SetupHandler{cfg: cfg}
}

type SetupStatus struct {
	Configured  bool `json:"configured"`
	Database    bool `json:"database"`
	GitHub      bool `json:"github"`
	Attachments bool `json:"attachments"`
	Broker      bool `json:"broker"`
}

// GetStatus godoc
//
//	@Summary		Setup status
//	@Description	Report which external collaborators are configured
//	@Tags			setup
//	@Produce		json
//	@Success		200	{object}	serializer.Response{data=handler.SetupStatus}
//	@Router			/setup/status [get]
func (h *SetupHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, serializer.Response{Data: SetupStatus{
		Configured:  h.cfg.Configured(),
		Database:    h.cfg.Database.DSN != "",
		GitHub:      h.cfg.GitHubConfigured(),
		Attachments: h.cfg.S3.Bucket != "",
		Broker:      h.cfg.RabbitMQ.URL != "",
	}})
}
