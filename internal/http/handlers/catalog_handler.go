package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dactasg/proposal-architect/internal/dto"
	"github.com/dactasg/proposal-architect/internal/models"
)

// CatalogHandler отдаёт справочники формы.
type CatalogHandler struct{}

// NewCatalogHandler создаёт новый хэндлер.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListOptions обрабатывает GET /api/services.
// Форма рендерит набор услуг и тонов из одного источника.
func (h *CatalogHandler) ListOptions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CatalogResponse{
		Services: models.ServiceTypes,
		Tones:    models.ToneOptions,
	})
}
