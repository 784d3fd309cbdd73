package handler

import (
	"github.com/tekblok/fieldtask/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTaskRequest) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		DispatcherName: req.DispatcherName,
		Address:        req.Address,
		PlannerDate:    req.PlannerDate,
		WorkType:       req.WorkType,
		Voltage:        req.Voltage,
		Job:            req.Job,
		Photos:         req.Photos,
		Comments:       req.Comments,
	}
}

func toTaskPatch(req updateTaskRequest) ports.TaskPatch {
	return ports.TaskPatch{
		DispatcherName: req.DispatcherName,
		Address:        req.Address,
		PlannerDate:    req.PlannerDate,
		WorkType:       req.WorkType,
		Voltage:        req.Voltage,
		Job:            req.Job,
		Photos:         req.Photos,
		Comments:       req.Comments,
	}
}

// --- Service output → Response ---

func toPhotoResponse(res *ports.PhotoResult) photoResponse {
	return photoResponse{URL: res.URL, Coordinates: res.Coordinates}
}
