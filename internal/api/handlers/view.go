package handlers

import (
	"strconv"

	"playbox/internal/engine"

	"github.com/gin-gonic/gin"
)

// ViewHandler serves the read-only customer view: live remaining time and
// state for one unit, no controls and no auth.
type ViewHandler struct {
	engine *engine.Engine
}

func NewViewHandler(eng *engine.Engine) *ViewHandler {
	return &ViewHandler{engine: eng}
}

func (h *ViewHandler) GetView(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid unit ID"})
		return
	}

	unit, err := h.engine.Get(uint(id))
	if err != nil {
		c.JSON(404, gin.H{"error": "Unit not found"})
		return
	}

	state := "idle"
	if unit.Active {
		state = "running"
	} else if unit.Finished {
		state = "finished"
	}

	progress := 1.0
	if unit.InitialSec > 0 {
		progress = float64(unit.RemainingSec) / float64(unit.InitialSec)
	}

	c.JSON(200, gin.H{
		"name":         unit.Name,
		"remainingSec": unit.RemainingSec,
		"remaining":    engine.FormatHMS(unit.RemainingSec),
		"state":        state,
		"color":        unit.Color,
		"progress":     progress,
	})
}
