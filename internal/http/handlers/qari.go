package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/quranstudy-backend/internal/http/response"
	"github.com/yungbote/quranstudy-backend/internal/services"
)

type QariHandler struct {
	catalog services.CatalogService
}

func NewQariHandler(catalog services.CatalogService) *QariHandler {
	return &QariHandler{catalog: catalog}
}

// GET /api/qaris
func (h *QariHandler) List(c *gin.Context) {
	qaris, err := h.catalog.Qaris(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, qaris)
}
