package handlers

import (
	"net/http"

	"buspulse/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	export service.ExportService
}

func NewExportHandler(export service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// ExportXLSX отдает книгу "Latest Status" вложением
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	ctx := c.Request.Context()

	workbook, err := h.export.LatestStatusWorkbook(ctx, c.Query("stop_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to build export",
			"message": err.Error(),
		})
		return
	}
	defer workbook.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=latest_status.xlsx")

	if err := workbook.Write(c.Writer); err != nil {
		// Заголовки уже ушли, остается только залогировать
		c.Error(err)
	}
}
