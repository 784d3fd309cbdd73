package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinTaskPhotos = 2
	MaxTaskPhotos = 5
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidPhotoCount  = fmt.Errorf("a task needs between %d and %d photos", MinTaskPhotos, MaxTaskPhotos)
	ErrInvalidPhoto       = errors.New("uploaded file is not a supported image")
	ErrPhotoStoreDisabled = errors.New("photo storage is not configured")
	ErrInvalidTaskSheet   = errors.New("invalid task spreadsheet")
)

// Coordinates is a WGS84 point in decimal degrees. A nil *Coordinates means
// "unknown"; it is never encoded as 0,0.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Valid reports whether both components are inside their ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DMSToDecimal converts degrees/minutes/seconds to decimal degrees, negating
// the result for the southern and western hemispheres.
func DMSToDecimal(degrees, minutes, seconds float64, ref string) float64 {
	decimal := degrees + minutes/60 + seconds/3600
	if ref == "S" || ref == "W" {
		decimal = -decimal
	}
	return decimal
}

// ValidatePhotoCount checks the 2..5 bound on a supplied photo sequence.
func ValidatePhotoCount(photos []string) error {
	if len(photos) < MinTaskPhotos || len(photos) > MaxTaskPhotos {
		return fmt.Errorf("%w: got %d", ErrInvalidPhotoCount, len(photos))
	}
	return nil
}

// Task is a unit of field work. It starts open and becomes completed when a
// worker attaches photos.
type Task struct {
	ID             int64        `json:"id" bson:"_id"`
	DispatcherName string       `json:"dispatcher_name" bson:"dispatcher_name"`
	Address        string       `json:"address" bson:"address"`
	PlannerDate    string       `json:"planner_date,omitempty" bson:"planner_date,omitempty"`
	WorkType       string       `json:"work_type" bson:"work_type"`
	Voltage        float64      `json:"voltage" bson:"voltage"`
	Job            string       `json:"job,omitempty" bson:"job,omitempty"`
	Photos         []string     `json:"photos" bson:"photos,omitempty"`
	Comments       string       `json:"comments,omitempty" bson:"comments,omitempty"`
	Coordinates    *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	CompletionDate *time.Time   `json:"completion_date,omitempty" bson:"completion_date,omitempty"`
	IsCompleted    bool         `json:"is_completed" bson:"is_completed"`
	WorkerID       string       `json:"worker_id,omitempty" bson:"worker_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at" bson:"created_at"`
}

// CheckStorable enforces the invariants the store must never persist a
// violation of. An empty photo list means no photos were attached.
func (t *Task) CheckStorable() error {
	if len(t.Photos) == 0 {
		return nil
	}
	return ValidatePhotoCount(t.Photos)
}

// MarkCompleted stamps completion metadata. The transition is one way.
func (t *Task) MarkCompleted(workerID string, at time.Time) {
	at = at.UTC()
	t.CompletionDate = &at
	t.WorkerID = workerID
	t.IsCompleted = true
}
