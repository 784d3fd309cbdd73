package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tekblok/fieldtask/internal/core/ports"
)

const (
	reportFilename = "Reports.xlsx"
	mimeXLSX       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxPhotoBytes  = 20 << 20
)

// TaskHandler handles HTTP requests for task operations. Role checks are done
// by the service.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// ListOpen handles GET /task.
//
// @Summary      List open tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Task
// @Failure      401  {object}  errorResponse
// @Router       /task [get]
func (h *TaskHandler) ListOpen(c echo.Context) error {
	tasks, err := h.service.ListOpen(c.Request().Context(), ctxPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// ListCompleted handles GET /task/completed.
//
// @Summary      List completed tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Task
// @Failure      401  {object}  errorResponse
// @Router       /task/completed [get]
func (h *TaskHandler) ListCompleted(c echo.Context) error {
	tasks, err := h.service.ListCompleted(c.Request().Context(), ctxPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get handles GET /task/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  domain.Task
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /task/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.service.Get(c.Request().Context(), ctxPrincipal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Create handles POST /task.
//
// @Summary      Plan a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /task [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), ctxPrincipal(c), toCreateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// Complete handles POST /task/:id/complete.
//
// @Summary      Complete a task with photos
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Task id"
// @Param        body  body      completeTaskRequest  true  "Photo URLs and comment"
// @Success      200   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /task/{id}/complete [post]
func (h *TaskHandler) Complete(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	var req completeTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Complete(c.Request().Context(), id, ctxPrincipal(c), ports.CompleteTaskInput{
		Photos:   req.Photos,
		Comments: req.Comments,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Update handles PATCH /task/:id.
//
// @Summary      Edit a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /task/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Update(c.Request().Context(), id, ctxPrincipal(c), toTaskPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /task/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Task id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /task/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id, ctxPrincipal(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAll handles DELETE /task/clear.
//
// @Summary      Delete every task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  deleteAllResponse
// @Failure      401  {object}  errorResponse
// @Router       /task/clear [delete]
func (h *TaskHandler) DeleteAll(c echo.Context) error {
	n, err := h.service.DeleteAll(c.Request().Context(), ctxPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteAllResponse{Deleted: n})
}

// Download handles POST /task/download.
//
// @Summary      Download the completed-task report
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      401  {object}  errorResponse
// @Router       /task/download [post]
func (h *TaskHandler) Download(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.service.ExportCompleted(c.Request().Context(), ctxPrincipal(c), &buf); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+reportFilename+`"`)
	return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

// Upload handles POST /task/upload.
//
// @Summary      Import planned tasks from a spreadsheet
// @Tags         reports
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "xlsx planning sheet"
// @Success      201   {array}   domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /task/upload [post]
func (h *TaskHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	tasks, err := h.service.ImportPlanned(c.Request().Context(), ctxPrincipal(c), src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tasks)
}

// UploadPhoto handles POST /task/photos.
//
// @Summary      Upload a task photo
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        photo  formData  file  true  "JPEG, PNG or WebP image"
// @Success      201    {object}  photoResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      413    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Failure      503    {object}  errorResponse
// @Router       /task/photos [post]
func (h *TaskHandler) UploadPhoto(c echo.Context) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "photo is required")
	}
	if file.Size > maxPhotoBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "photo too large")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	body, err := io.ReadAll(io.LimitReader(src, maxPhotoBytes))
	if err != nil {
		return err
	}

	res, err := h.service.UploadPhoto(c.Request().Context(), ctxPrincipal(c), ports.PhotoUpload{
		Body:        body,
		ContentType: file.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPhotoResponse(res))
}
