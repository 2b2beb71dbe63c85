// Package storage persists the task list in Redis. The whole list lives
// under a single key as a JSON array, matching the one-logical-key contract
// of the scheduler's persisted state. Concurrent writers are not guarded:
// last write wins.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"scheduler-api/domain"
)

// DefaultTasksKey is the Redis key holding the serialized task list.
const DefaultTasksKey = "work_scheduler_tasks"

// ErrNotFound is returned when an id does not exist in the store.
var ErrNotFound = errors.New("task not found")

// Store owns the canonical task list.
type Store struct {
	redis  *redis.Client
	key    string
	logger *log.Logger
}

// New creates a Store over the given Redis client. An empty key selects
// DefaultTasksKey.
func New(client *redis.Client, key string, logger *log.Logger) *Store {
	if client == nil {
		panic("storage.New: redis client is nil")
	}
	if key == "" {
		key = DefaultTasksKey
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Store{redis: client, key: key, logger: logger}
}

// List returns every stored task. A missing key seeds and returns the
// example tasks. Read or decode failures degrade to an empty list so the
// caller stays usable with a corrupted or unreachable store; the failure
// is logged, never fatal.
func (s *Store) List(ctx context.Context) []domain.Task {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return s.seed(ctx)
	}
	if err != nil {
		s.logger.WithError(err).Error("read tasks")
		return []domain.Task{}
	}
	var tasks []domain.Task
	if err := sonic.Unmarshal(data, &tasks); err != nil {
		s.logger.WithError(err).Error("decode tasks")
		return []domain.Task{}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks
}

// Add assigns an id and timestamps to the draft, appends it to the list
// and saves. The stored task is returned.
func (s *Store) Add(ctx context.Context, draft domain.Draft) (domain.Task, error) {
	tasks := s.List(ctx)
	now := time.Now().UTC().Format(time.RFC3339)
	task := domain.Task{
		ID:          newTaskID(),
		Name:        draft.Name,
		Date:        draft.Date,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		Priority:    draft.Priority,
		Description: draft.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tasks = append(tasks, task)
	if err := s.save(ctx, tasks); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// Update merges the patch into the task with the given id and refreshes
// its UpdatedAt. ErrNotFound is returned when the id is absent.
func (s *Store) Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, error) {
	tasks := s.List(ctx)
	for i, t := range tasks {
		if t.ID != id {
			continue
		}
		updated := patch.Apply(t)
		updated.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		tasks[i] = updated
		if err := s.save(ctx, tasks); err != nil {
			return domain.Task{}, err
		}
		return updated, nil
	}
	return domain.Task{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
}

// Delete removes the task with the given id. It reports false when the id
// is absent.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	tasks := s.List(ctx)
	kept := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return false, nil
	}
	if err := s.save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the task with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (domain.Task, error) {
	for _, t := range s.List(ctx) {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Task{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
}

// Ping reports whether the backing Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Store) save(ctx context.Context, tasks []domain.Task) error {
	// Conflicts are derived per query and must never be persisted.
	for i := range tasks {
		tasks[i].Conflicts = nil
	}
	data, err := sonic.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Store) seed(ctx context.Context) []domain.Task {
	tasks := defaultTasks(time.Now())
	if err := s.save(ctx, tasks); err != nil {
		s.logger.WithError(err).Warn("seed example tasks")
		return tasks
	}
	s.logger.WithField("count", len(tasks)).Info("seeded example tasks")
	return tasks
}

func newTaskID() string {
	return "task_" + uuid.NewString()
}
