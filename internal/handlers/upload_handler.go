package handlers

import (
	"log"
	"net/http"

	"buspulse/internal/repository"
	"buspulse/internal/service"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	ingest   service.IngestService
	cache    repository.CacheRepository
	maxBytes int64
}

func NewUploadHandler(ingest service.IngestService, cache repository.CacheRepository, maxFileSizeMB int64) *UploadHandler {
	return &UploadHandler{
		ingest:   ingest,
		cache:    cache,
		maxBytes: maxFileSizeMB * 1024 * 1024,
	}
}

// UploadCSV принимает multipart-файл телеметрии и прогоняет его через конвейер.
// Фатальные для батча условия (кодировка, заголовок) возвращают 400 с одним
// сообщением; построчные ошибки видны только в итоговой сводке.
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "file field is required",
		})
		return
	}

	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "file too large",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "failed to open uploaded file",
			"message": err.Error(),
		})
		return
	}
	defer file.Close()

	summary, err := h.ingest.IngestCSV(ctx, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// Данные изменились - сбрасываем кэш дашборда
	if h.cache != nil {
		if err := h.cache.InvalidatePattern(ctx, "dashboard:*"); err != nil {
			log.Printf("Failed to invalidate dashboard cache: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
	})
}
