package handler

import "github.com/tekblok/fieldtask/internal/core/domain"

// --- Request / Response types ---

type createTaskRequest struct {
	DispatcherName string   `json:"dispatcher_name" validate:"required"`
	Address        string   `json:"address"         validate:"required"`
	PlannerDate    string   `json:"planner_date"`
	WorkType       string   `json:"work_type"       validate:"required"`
	Voltage        float64  `json:"voltage"         validate:"gte=0"`
	Job            string   `json:"job"`
	Photos         []string `json:"photos"          validate:"omitempty,dive,url"`
	Comments       string   `json:"comments"`
}

type completeTaskRequest struct {
	Photos   []string `json:"photos" validate:"dive,url"`
	Comments *string  `json:"comments"`
}

// updateTaskRequest only carries the fields being changed.
type updateTaskRequest struct {
	DispatcherName *string   `json:"dispatcher_name"`
	Address        *string   `json:"address"  validate:"omitempty,min=1"`
	PlannerDate    *string   `json:"planner_date"`
	WorkType       *string   `json:"work_type"`
	Voltage        *float64  `json:"voltage"  validate:"omitempty,gte=0"`
	Job            *string   `json:"job"`
	Photos         *[]string `json:"photos"   validate:"omitempty,dive,url"`
	Comments       *string   `json:"comments"`
}

type photoResponse struct {
	URL         string              `json:"url"`
	Coordinates *domain.Coordinates `json:"coordinates"`
}

type deleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}
