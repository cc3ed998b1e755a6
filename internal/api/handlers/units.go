package handlers

import (
	"errors"
	"strconv"

	"playbox/internal/config"
	"playbox/internal/engine"

	"github.com/gin-gonic/gin"
)

type UnitHandler struct {
	engine *engine.Engine
	cfg    *config.Config
}

func NewUnitHandler(eng *engine.Engine, cfg *config.Config) *UnitHandler {
	return &UnitHandler{
		engine: eng,
		cfg:    cfg,
	}
}

type CreateUnitRequest struct {
	Name         string `json:"name"`
	PricePerHour int    `json:"pricePerHour"`
}

type UpdateUnitRequest struct {
	Name         *string `json:"name"`
	PricePerHour *int    `json:"pricePerHour"`
	Notes        *string `json:"notes"`
}

type SetInputsRequest struct {
	Hours int `json:"hours"`
	Mins  int `json:"mins"`
}

type SetVolumeRequest struct {
	Volume *float64 `json:"volume" binding:"required"`
}

type StartRequest struct {
	Hours   *int `json:"hours"`
	Mins    *int `json:"mins"`
	Confirm bool `json:"confirm"`
}

// GetUnits returns all units in registry order
func (h *UnitHandler) GetUnits(c *gin.Context) {
	c.JSON(200, gin.H{"units": h.engine.List()})
}

// GetUnit returns a single unit
func (h *UnitHandler) GetUnit(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	unit, err := h.engine.Get(id)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, unit)
}

// CreateUnit adds a new idle unit
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	unit := h.engine.Add(req.Name, req.PricePerHour, h.cfg.Defaults.UnitPrice)
	c.JSON(201, unit)
}

// UpdateUnit changes name, price and/or notes
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var req UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if req.Name != nil {
		if err := h.engine.Rename(id, *req.Name); err != nil {
			c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
	}
	if req.PricePerHour != nil {
		if err := h.engine.SetPrice(id, *req.PricePerHour); err != nil {
			c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
	}
	if req.Notes != nil {
		if err := h.engine.SetNotes(id, *req.Notes); err != nil {
			c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
	}

	unit, err := h.engine.Get(id)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, unit)
}

// SetInputs stages the duration for the next start
func (h *UnitHandler) SetInputs(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var req SetInputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := h.engine.SetInputs(id, req.Hours, req.Mins); err != nil {
		c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Inputs staged"})
}

// SetVolume adjusts the per-unit volume; zero also mutes
func (h *UnitHandler) SetVolume(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var req SetVolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := h.engine.SetVolume(id, *req.Volume); err != nil {
		c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Volume updated"})
}

// ToggleMute flips the mute flag
func (h *UnitHandler) ToggleMute(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	muted, err := h.engine.ToggleMute(id)
	if err != nil {
		c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"muted": muted})
}

// Start begins (or restarts) a run. Restarting a running unit requires
// confirm=true and responds 409 otherwise.
func (h *UnitHandler) Start(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if req.Hours != nil || req.Mins != nil {
		unit, err := h.engine.Get(id)
		if err != nil {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		hours := unit.Inputs.Hours
		mins := unit.Inputs.Mins
		if req.Hours != nil {
			hours = *req.Hours
		}
		if req.Mins != nil {
			mins = *req.Mins
		}
		if err := h.engine.SetInputs(id, hours, mins); err != nil {
			c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
	}

	unit, err := h.engine.Start(id, req.Confirm)
	if err != nil {
		if errors.Is(err, engine.ErrConfirmRequired) {
			c.JSON(409, gin.H{"error": err.Error(), "confirm_required": true})
			return
		}
		c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, unit)
}

// Stop ends a run manually and reports the billed minutes
func (h *UnitHandler) Stop(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	minutes, err := h.engine.Stop(id)
	if err != nil {
		c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Unit stopped", "minutes_used": minutes})
}

// DeleteUnit schedules removal after the grace window
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	if err := h.engine.RequestDelete(id); err != nil {
		c.JSON(unitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{
		"message":  "Unit will be deleted",
		"grace_ms": engine.DeleteGrace.Milliseconds(),
	})
}

// UndoDelete cancels a pending removal; a late undo is a no-op
func (h *UnitHandler) UndoDelete(c *gin.Context) {
	id, ok := h.unitID(c)
	if !ok {
		return
	}

	h.engine.UndoDelete(id)
	c.JSON(200, gin.H{"message": "Delete undone"})
}

func (h *UnitHandler) unitID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid unit ID"})
		return 0, false
	}
	return uint(id), true
}

func unitErrorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnitNotFound):
		return 404
	case errors.Is(err, engine.ErrConfirmRequired):
		return 409
	default:
		return 400
	}
}
