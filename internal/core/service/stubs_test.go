package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/ports"
)

// --- users ---

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// --- revocation ---

type stubRevoker struct {
	mu      sync.Mutex
	tokens  map[string]time.Time
	cutoffs map[string]time.Time
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{tokens: make(map[string]time.Time), cutoffs: make(map[string]time.Time)}
}

func (r *stubRevoker) RevokeToken(_ context.Context, id string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[id] = expiresAt
	return nil
}

func (r *stubRevoker) RevokeUser(_ context.Context, userID string, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoffs[userID] = cutoff
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, c *domain.Claims) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.tokens[c.ID]; ok {
		return true, nil
	}
	if cutoff, ok := r.cutoffs[c.User.UserUID]; ok && c.IssuedAt.Before(cutoff) {
		return true, nil
	}
	return false, nil
}

// --- tasks ---

type stubTaskRepo struct {
	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64
	writes int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[int64]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Photos = append([]string(nil), t.Photos...)
	if t.Coordinates != nil {
		c := *t.Coordinates
		clone.Coordinates = &c
	}
	if t.CompletionDate != nil {
		d := *t.CompletionDate
		clone.CompletionDate = &d
	}
	return &clone
}

func (r *stubTaskRepo) seed(t *domain.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = cloneTask(t)
	if t.ID > r.nextID {
		r.nextID = t.ID
	}
}

func (r *stubTaskRepo) get(id int64) *domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneTask(r.tasks[id])
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if err := t.CheckStorable(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	r.tasks[t.ID] = cloneTask(t)
	r.writes++
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) List(_ context.Context, completed bool) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.IsCompleted == completed {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTaskRepo) Replace(_ context.Context, t *domain.Task) error {
	if err := t.CheckStorable(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.tasks[t.ID] = cloneTask(t)
	r.writes++
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *stubTaskRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.tasks))
	r.tasks = make(map[int64]*domain.Task)
	return n, nil
}

// --- geolocation ---

// stubGeo answers from a fixed table keyed by URL and records every call.
type stubGeo struct {
	mu       sync.Mutex
	byURL    map[string]*domain.Coordinates
	fromBody *domain.Coordinates
	calls    [][]string
}

func (g *stubGeo) Extract([]byte) *domain.Coordinates {
	return g.fromBody
}

func (g *stubGeo) ExtractFromCandidates(_ context.Context, urls []string) *domain.Coordinates {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, append([]string(nil), urls...))
	for _, u := range urls {
		if c, ok := g.byURL[u]; ok {
			return c
		}
	}
	return nil
}

// --- photo storage ---

type stubPhotoStore struct {
	keys []string
	err  error
}

func (s *stubPhotoStore) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://photos.example.test/" + key, nil
}

// --- spreadsheets ---

type stubSpreadsheet struct {
	rows    []ports.ReportRow
	planned []ports.CreateTaskInput
	readErr error
}

func (s *stubSpreadsheet) WriteCompleted(w io.Writer, rows []ports.ReportRow) error {
	s.rows = rows
	_, err := w.Write([]byte("xlsx"))
	return err
}

func (s *stubSpreadsheet) ReadPlanned(r io.Reader) ([]ports.CreateTaskInput, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return s.planned, nil
}

var errStub = errors.New("stub failure")

// --- catalogs ---

type stubCatalogRepo struct {
	workTypes map[string]*domain.WorkType
	voltages  map[string]*domain.Voltage
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{workTypes: map[string]*domain.WorkType{}, voltages: map[string]*domain.Voltage{}}
}

func (r *stubCatalogRepo) CreateWorkType(_ context.Context, wt *domain.WorkType) error {
	for _, existing := range r.workTypes {
		if existing.Title == wt.Title {
			return domain.ErrCatalogDuplicate
		}
	}
	r.workTypes[wt.ID] = wt
	return nil
}

func (r *stubCatalogRepo) FindWorkType(_ context.Context, id string) (*domain.WorkType, error) {
	wt, ok := r.workTypes[id]
	if !ok {
		return nil, domain.ErrWorkTypeNotFound
	}
	return wt, nil
}

func (r *stubCatalogRepo) ListWorkTypes(_ context.Context) ([]*domain.WorkType, error) {
	out := make([]*domain.WorkType, 0, len(r.workTypes))
	for _, wt := range r.workTypes {
		out = append(out, wt)
	}
	return out, nil
}

func (r *stubCatalogRepo) DeleteWorkType(_ context.Context, id string) error {
	if _, ok := r.workTypes[id]; !ok {
		return domain.ErrWorkTypeNotFound
	}
	delete(r.workTypes, id)
	return nil
}

func (r *stubCatalogRepo) CreateVoltage(_ context.Context, v *domain.Voltage) error {
	for _, existing := range r.voltages {
		if existing.Volt == v.Volt {
			return domain.ErrCatalogDuplicate
		}
	}
	r.voltages[v.ID] = v
	return nil
}

func (r *stubCatalogRepo) FindVoltage(_ context.Context, id string) (*domain.Voltage, error) {
	v, ok := r.voltages[id]
	if !ok {
		return nil, domain.ErrVoltageNotFound
	}
	return v, nil
}

func (r *stubCatalogRepo) ListVoltages(_ context.Context) ([]*domain.Voltage, error) {
	out := make([]*domain.Voltage, 0, len(r.voltages))
	for _, v := range r.voltages {
		out = append(out, v)
	}
	return out, nil
}

func (r *stubCatalogRepo) DeleteVoltage(_ context.Context, id string) error {
	if _, ok := r.voltages[id]; !ok {
		return domain.ErrVoltageNotFound
	}
	delete(r.voltages, id)
	return nil
}
