package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/ports"
	"github.com/tekblok/fieldtask/internal/pkg/metrics"
)

// maxCompletionCandidates bounds how many completion photos are probed for a
// location before giving up.
const maxCompletionCandidates = 2

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// TaskService implements the task lifecycle. Every operation checks the
// caller's role before touching the store.
type TaskService struct {
	repo   ports.TaskRepository
	users  ports.UserRepository
	geo    ports.GeoExtractor
	photos ports.PhotoStore
	sheets ports.Spreadsheet
	policy AccessPolicy
	logger zerolog.Logger
	now    func() time.Time
}

// NewTaskService wires the lifecycle. photos and sheets may be nil when object
// storage or spreadsheet exchange are not deployed.
func NewTaskService(
	repo ports.TaskRepository,
	users ports.UserRepository,
	geo ports.GeoExtractor,
	photos ports.PhotoStore,
	sheets ports.Spreadsheet,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{
		repo:   repo,
		users:  users,
		geo:    geo,
		photos: photos,
		sheets: sheets,
		policy: NewAccessPolicy(),
		logger: logger,
		now:    time.Now,
	}
}

func (s *TaskService) ListOpen(ctx context.Context, p *domain.Principal) ([]*domain.Task, error) {
	if err := s.policy.Check(p, RolesReadTasks); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, false)
}

func (s *TaskService) ListCompleted(ctx context.Context, p *domain.Principal) ([]*domain.Task, error) {
	if err := s.policy.Check(p, RolesReadTasks); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, true)
}

func (s *TaskService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Task, error) {
	if err := s.policy.Check(p, RolesReadTasks); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Create plans a new open task. Photos, when supplied, must respect the count
// bound; an explicitly empty list is rejected.
func (s *TaskService) Create(ctx context.Context, p *domain.Principal, in ports.CreateTaskInput) (*domain.Task, error) {
	if err := s.policy.Check(p, RolesWriteTasks); err != nil {
		return nil, err
	}
	task, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	metrics.TasksCreatedTotal.WithLabelValues("api").Inc()
	s.logger.Info().Int64("task_id", task.ID).Str("created_by", p.ID).Msg("task created")
	return task, nil
}

func (s *TaskService) create(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	if in.Photos != nil {
		if err := domain.ValidatePhotoCount(in.Photos); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		DispatcherName: in.DispatcherName,
		Address:        in.Address,
		PlannerDate:    in.PlannerDate,
		WorkType:       in.WorkType,
		Voltage:        in.Voltage,
		Job:            in.Job,
		Photos:         in.Photos,
		Comments:       in.Comments,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// Complete attaches the worker's photos, derives a location from the first
// candidates and stamps the task as completed. Nothing is written when any
// check fails.
func (s *TaskService) Complete(ctx context.Context, id int64, p *domain.Principal, in ports.CompleteTaskInput) (*domain.Task, error) {
	if err := s.policy.Check(p, RolesWriteTasks); err != nil {
		return nil, err
	}
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePhotoCount(in.Photos); err != nil {
		return nil, err
	}

	task.Photos = append([]string(nil), in.Photos...)
	if in.Comments != nil {
		task.Comments = *in.Comments
	}
	if coords := s.locate(ctx, in.Photos); coords != nil {
		task.Coordinates = coords
	}
	task.MarkCompleted(p.ID, s.now())

	if err := s.repo.Replace(ctx, task); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	metrics.TasksCompletedTotal.WithLabelValues(strconv.FormatBool(task.Coordinates != nil)).Inc()
	s.logger.Info().
		Int64("task_id", task.ID).
		Str("worker_id", p.ID).
		Bool("located", task.Coordinates != nil).
		Msg("task completed")
	return task, nil
}

// Update applies a partial edit. Any update re-stamps completion with the
// caller as worker; new photos replace the location, clearing it when none of
// the candidates carries one.
func (s *TaskService) Update(ctx context.Context, id int64, p *domain.Principal, patch ports.TaskPatch) (*domain.Task, error) {
	if err := s.policy.Check(p, RolesWriteTasks); err != nil {
		return nil, err
	}
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Photos != nil {
		if err := domain.ValidatePhotoCount(*patch.Photos); err != nil {
			return nil, err
		}
	}

	applyPatch(task, patch)
	if patch.Photos != nil {
		task.Photos = append([]string(nil), (*patch.Photos)...)
		task.Coordinates = s.locate(ctx, task.Photos)
	}
	task.MarkCompleted(p.ID, s.now())

	if err := s.repo.Replace(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	metrics.TasksCompletedTotal.WithLabelValues(strconv.FormatBool(task.Coordinates != nil)).Inc()
	s.logger.Info().Int64("task_id", task.ID).Str("worker_id", p.ID).Msg("task updated")
	return task, nil
}

func applyPatch(task *domain.Task, patch ports.TaskPatch) {
	if patch.DispatcherName != nil {
		task.DispatcherName = *patch.DispatcherName
	}
	if patch.Address != nil {
		task.Address = *patch.Address
	}
	if patch.PlannerDate != nil {
		task.PlannerDate = *patch.PlannerDate
	}
	if patch.WorkType != nil {
		task.WorkType = *patch.WorkType
	}
	if patch.Voltage != nil {
		task.Voltage = *patch.Voltage
	}
	if patch.Job != nil {
		task.Job = *patch.Job
	}
	if patch.Comments != nil {
		task.Comments = *patch.Comments
	}
}

func (s *TaskService) Delete(ctx context.Context, id int64, p *domain.Principal) error {
	if err := s.policy.Check(p, RolesDeleteTasks); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("task_id", id).Str("deleted_by", p.ID).Msg("task deleted")
	return nil
}

func (s *TaskService) DeleteAll(ctx context.Context, p *domain.Principal) (int64, error) {
	if err := s.policy.Check(p, RolesDeleteTasks); err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	s.logger.Warn().Int64("deleted", n).Str("deleted_by", p.ID).Msg("all tasks deleted")
	return n, nil
}

// UploadPhoto stores a raw photo and returns its URL together with whatever
// location its own metadata reveals.
func (s *TaskService) UploadPhoto(ctx context.Context, p *domain.Principal, photo ports.PhotoUpload) (*ports.PhotoResult, error) {
	if err := s.policy.Check(p, RolesWriteTasks); err != nil {
		return nil, err
	}
	if s.photos == nil {
		return nil, domain.ErrPhotoStoreDisabled
	}

	contentType := http.DetectContentType(photo.Body)
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPhoto, contentType)
	}

	now := s.now().UTC()
	key := fmt.Sprintf("photos/%s/%s%s", now.Format("2006/01/02"), uuid.NewString(), ext)
	url, err := s.photos.Put(ctx, key, bytes.NewReader(photo.Body), contentType)
	if err != nil {
		metrics.PhotosUploadedTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store photo: %w", err)
	}
	metrics.PhotosUploadedTotal.WithLabelValues("ok").Inc()

	return &ports.PhotoResult{URL: url, Coordinates: s.geo.Extract(photo.Body)}, nil
}

// ExportCompleted writes every completed task, with the worker's username
// resolved, as a spreadsheet.
func (s *TaskService) ExportCompleted(ctx context.Context, p *domain.Principal, w io.Writer) error {
	if err := s.policy.Check(p, RolesReadTasks); err != nil {
		return err
	}
	if s.sheets == nil {
		return errors.New("spreadsheet export is not configured")
	}

	tasks, err := s.repo.List(ctx, true)
	if err != nil {
		return err
	}

	names := make(map[string]string)
	rows := make([]ports.ReportRow, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, ports.ReportRow{Task: t, Worker: s.workerName(ctx, names, t.WorkerID)})
	}
	return s.sheets.WriteCompleted(w, rows)
}

func (s *TaskService) workerName(ctx context.Context, cache map[string]string, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := cache[id]; ok {
		return name
	}
	name := id
	if user, err := s.users.FindByID(ctx, id); err == nil {
		name = user.Username
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("could not resolve worker name")
	}
	cache[id] = name
	return name
}

// ImportPlanned creates one open task per row of a planning spreadsheet. Rows
// are validated before anything is written.
func (s *TaskService) ImportPlanned(ctx context.Context, p *domain.Principal, r io.Reader) ([]*domain.Task, error) {
	if err := s.policy.Check(p, RolesWriteTasks); err != nil {
		return nil, err
	}
	if s.sheets == nil {
		return nil, errors.New("spreadsheet import is not configured")
	}

	inputs, err := s.sheets.ReadPlanned(r)
	if err != nil {
		return nil, err
	}
	for i, in := range inputs {
		if strings.TrimSpace(in.Address) == "" {
			return nil, fmt.Errorf("%w: row %d has no address", domain.ErrInvalidTaskSheet, i+1)
		}
	}

	created := make([]*domain.Task, 0, len(inputs))
	for _, in := range inputs {
		task, err := s.create(ctx, in)
		if err != nil {
			return created, err
		}
		created = append(created, task)
	}
	metrics.TasksCreatedTotal.WithLabelValues("import").Add(float64(len(created)))
	s.logger.Info().Int("tasks", len(created)).Str("imported_by", p.ID).Msg("tasks imported")
	return created, nil
}

func (s *TaskService) locate(ctx context.Context, photos []string) *domain.Coordinates {
	candidates := photos
	if len(candidates) > maxCompletionCandidates {
		candidates = candidates[:maxCompletionCandidates]
	}
	return s.geo.ExtractFromCandidates(ctx, candidates)
}
