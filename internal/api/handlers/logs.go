package handlers

import (
	"errors"
	"time"

	"playbox/internal/engine"
	"playbox/internal/notify"
	"playbox/internal/services"

	"github.com/gin-gonic/gin"
)

type LogsHandler struct {
	logService *services.LogService
	center     *notify.Center
}

func NewLogsHandler(logService *services.LogService, center *notify.Center) *LogsHandler {
	return &LogsHandler{
		logService: logService,
		center:     center,
	}
}

// GetLogs returns filtered entries most-recent-first plus the running total
// over ALL entries, which ignores the filter on purpose.
func (h *LogsHandler) GetLogs(c *gin.Context) {
	from, to, err := services.ParseLogRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.logService.List(from, to)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get logs", "details": err.Error()})
		return
	}

	total, err := h.logService.Total()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to compute total", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"logs": entries, "total": total})
}

// ClearLogs wipes the ledger. Irreversible; requires confirm=true.
func (h *LogsHandler) ClearLogs(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(400, gin.H{"error": "Clearing logs is irreversible, pass confirm=true"})
		return
	}

	if err := h.logService.Clear(); err != nil {
		c.JSON(500, gin.H{"error": "Failed to clear logs", "details": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Logs cleared"})
}

// ExportLogs streams the filtered entries as a CSV download. An empty
// filtered set produces a notice and no file.
func (h *LogsHandler) ExportLogs(c *gin.Context) {
	from, to, err := services.ParseLogRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.logService.List(from, to)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get logs", "details": err.Error()})
		return
	}

	csv, err := services.ExportCSV(entries)
	if err != nil {
		if errors.Is(err, services.ErrExportEmpty) {
			h.center.Toast("No logs in range", engine.ColorDanger, 4*time.Second)
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to export logs", "details": err.Error()})
		return
	}

	h.center.Toast("CSV exported", engine.ColorInfo, 4*time.Second)
	filename := services.ExportFilename(time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "text/csv; charset=utf-8", csv)
}
