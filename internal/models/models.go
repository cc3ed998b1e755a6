package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Role         string    `json:"role" gorm:"type:varchar(50);default:'operator'"` // admin, operator
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"token" gorm:"type:varchar(500);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// UnitInputs is the staged duration entered by the operator before a start.
// It is a form buffer, not timer state.
type UnitInputs struct {
	Hours int `json:"hours"`
	Mins  int `json:"mins"`
}

// Unit is a rentable console slot with an independent countdown timer.
// Timer fields are mutated only by the engine; exactly one of
// active/finished/idle describes a unit at any instant.
type Unit struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"type:varchar(255);not null"`
	PricePerHour  int        `json:"pricePerHour" gorm:"not null"`
	Notes         string     `json:"notes" gorm:"type:text"`
	Active        bool       `json:"active"`
	RemainingSec  int        `json:"remainingSec"`
	InitialSec    int        `json:"initialSec"`
	Warned        bool       `json:"warned"`
	Finished      bool       `json:"finished"`
	Color         string     `json:"color" gorm:"type:varchar(10)"`
	Volume        float64    `json:"volume"`
	Muted         bool       `json:"muted"`
	PendingDelete *time.Time `json:"pendingDelete"`
	Inputs        UnitInputs `json:"inputs" gorm:"embedded;embeddedPrefix:input_"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LogEntry is an immutable billing record created when a run ends.
// Unit and Notes are snapshots; deleting a unit never touches its entries.
type LogEntry struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Unit            string    `json:"unit" gorm:"type:varchar(255);not null"`
	DurationMinutes int       `json:"durationMinutes" gorm:"not null"`
	Cost            int       `json:"cost" gorm:"not null"`
	Notes           string    `json:"notes" gorm:"type:text"`
	Timestamp       time.Time `json:"timestamp" gorm:"not null;index"`
}
