package services

import (
	"playbox/internal/models"
)

// UnitStore is the gorm-backed persistence for engine unit snapshots.
// It satisfies engine.UnitStore.
type UnitStore struct{}

func NewUnitStore() *UnitStore {
	return &UnitStore{}
}

// LoadUnits returns all persisted units in id order.
func (s *UnitStore) LoadUnits() ([]models.Unit, error) {
	var units []models.Unit
	if err := models.DB.Order("id asc").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// SaveUnit upserts one unit snapshot.
func (s *UnitStore) SaveUnit(u *models.Unit) error {
	return models.DB.Save(u).Error
}

// SaveUnits upserts a batch, used after each tick for the units that moved.
func (s *UnitStore) SaveUnits(units []models.Unit) error {
	for i := range units {
		if err := models.DB.Save(&units[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteUnit removes a unit record permanently. Log entries referencing the
// unit keep their name snapshot and are untouched.
func (s *UnitStore) DeleteUnit(id uint) error {
	return models.DB.Delete(&models.Unit{}, id).Error
}
