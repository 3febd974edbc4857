// Package memory keeps users and tasks in process memory. It mirrors the
// postgres schema rules: unique emails, owner-scoped task access and
// cascading task removal when a user is deleted.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ErlanBelekov/todo-api/internal/domain"
)

type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      map[int64]*domain.User
	emails     map[string]int64
	tasks      map[int64]*domain.Task
	nextUserID int64
	nextTaskID int64
}

func NewStore() *Store {
	return &Store{
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		users:  make(map[int64]*domain.User),
		emails: make(map[string]int64),
		tasks:  make(map[int64]*domain.Task),
	}
}

// Users and Tasks return views satisfying the repository interfaces; they
// share the store's state.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

// Ping lets the store stand in for the database in health checks.
func (s *Store) Ping(_ context.Context) error { return nil }

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, email, passwordHash, name string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.emails[email]; ok {
		return nil, domain.ErrEmailTaken
	}
	r.s.nextUserID++
	u := &domain.User{
		ID:           r.s.nextUserID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    r.s.now(),
	}
	r.s.users[u.ID] = u
	r.s.emails[email] = u.ID

	cp := *u
	return &cp, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *r.s.users[id]
	return &cp, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.emails, u.Email)
	delete(r.s.users, id)
	for tid, t := range r.s.tasks {
		if t.UserID == id {
			delete(r.s.tasks, tid)
		}
	}
	return nil
}

type TaskRepository struct {
	s *Store
}

func (r *TaskRepository) ListByUser(_ context.Context, userID int64) ([]*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == userID {
			tasks = append(tasks, cloneTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (r *TaskRepository) Create(_ context.Context, userID int64, title string, description *string) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.s.nextTaskID++
	now := r.s.now()
	t := &domain.Task{
		ID:          r.s.nextTaskID,
		UserID:      userID,
		Title:       title,
		Description: cloneString(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.tasks[t.ID] = t
	return cloneTask(t), nil
}

func (r *TaskRepository) Update(_ context.Context, userID, taskID int64, patch domain.TaskPatch) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	now := r.s.now()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	patch.Description.Value = cloneString(patch.Description.Value)
	patch.Apply(t, now)
	return cloneTask(t), nil
}

func (r *TaskRepository) Delete(_ context.Context, userID, taskID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[taskID]
	if !ok || t.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, taskID)
	return nil
}

func cloneTask(t *domain.Task) *domain.Task {
	cp := *t
	cp.Description = cloneString(t.Description)
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
