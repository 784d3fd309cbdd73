package domain

import (
	"errors"
	"time"
)

var (
	ErrWorkTypeNotFound    = errors.New("work type not found")
	ErrVoltageNotFound     = errors.New("voltage class not found")
	ErrCatalogDuplicate    = errors.New("catalog entry already exists")
	ErrInvalidCatalogEntry = errors.New("invalid catalog entry")
)

// WorkType is a kind of job dispatchers can plan.
type WorkType struct {
	ID        string    `json:"uid" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Voltage is a voltage class, in kV, of the equipment a task touches.
type Voltage struct {
	ID        string    `json:"uid" bson:"_id"`
	Volt      float64   `json:"volt" bson:"volt"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
