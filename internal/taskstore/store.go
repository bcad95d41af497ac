package taskstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/storage"
)

// Action names, as reported in Change.Action and accepted by Dispatch.
const (
	ActionAddTask              = "addTask"
	ActionSetDraggingTaskID    = "setDraggingTaskId"
	ActionRemoveDraggingTaskID = "removeDraggingTaskId"
	ActionChangeTaskStatus     = "changeTaskStatus"
	ActionOnTaskDrop           = "onTaskDrop"
	ActionRehydrate            = "rehydrate"
	ActionReset                = "reset"
)

// Change is delivered to listeners after every committed mutation.
type Change struct {
	Action string
	State  State
}

// Listener observes committed changes. It runs synchronously on the mutating goroutine.
type Listener func(Change)

// Store is the board state container.
type Store struct {
	mu        sync.RWMutex
	tasks     map[string]Task
	dragging  string
	listeners []*listenerEntry

	storage   storage.Storage
	persister *Persister
	key       string
	seed      map[string]Task
	newID     func() string
	logger    *zap.Logger
	onError   func(error)
	timeout   time.Duration
}

type listenerEntry struct {
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithKey sets the store name the state is persisted under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithSeed sets the tasks used when nothing has been persisted yet.
func WithSeed(tasks map[string]Task) Option {
	return func(s *Store) { s.seed = cloneTasks(tasks) }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithErrorHandler registers a callback for persistence failures.
// Failures are never returned from the mutating call itself.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onError = fn }
}

// WithWriteTimeout bounds each background write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// Open builds a store backed by st, rehydrating from it when a valid blob is
// stored under the key. A nil st gives an in-memory store.
// Read or decode failures fall back to the seed and are reported, not returned.
func Open(ctx context.Context, st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		key:     DefaultKey,
		seed:    SeedTasks(),
		newID:   uuid.NewString,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tasks = cloneTasks(s.seed)
	if st == nil {
		return s
	}

	if state, ok := s.load(ctx); ok {
		s.tasks = state.Tasks
		s.dragging = state.DraggingTaskID
	}

	s.persister = NewPersister(st, s.key, s.logger, s.timeout, s.onError)
	s.listeners = append(s.listeners, &listenerEntry{fn: s.persister.Notify})
	return s
}

func (s *Store) load(ctx context.Context) (State, bool) {
	data, found, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		s.report(fmt.Errorf("read %s: %w", s.key, err))
		return State{}, false
	}
	if !found {
		s.logger.Debug("no persisted state, using seed", zap.String("key", s.key))
		return State{}, false
	}
	state, err := Decode(data)
	if err != nil {
		s.report(fmt.Errorf("decode %s: %w", s.key, err))
		return State{}, false
	}
	s.logger.Debug("state rehydrated", zap.String("key", s.key), zap.Int("tasks", len(state.Tasks)))
	return state, true
}

func (s *Store) report(err error) {
	s.logger.Warn("falling back to seed state", zap.Error(err))
	if s.onError != nil {
		s.onError(err)
	}
}

// Key returns the store name.
func (s *Store) Key() string { return s.key }

// Storage returns the backing storage, or nil for an in-memory store.
func (s *Store) Storage() storage.Storage { return s.storage }

// Subscribe registers fn for every committed change and returns a function
// that unregisters it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	entry := &listenerEntry{fn: fn}
	s.mu.Lock()
	s.listeners = append(s.listeners, entry)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.listeners {
			if e == entry {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// TasksCount returns the number of tasks.
func (s *Store) TasksCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// TasksByStatus returns every task with the given status, ordered by id.
func (s *Store) TasksByStatus(status Status) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedTasks(s.tasks, func(t Task) bool { return t.Status == status })
}

// Tasks returns every task, ordered by id.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedTasks(s.tasks, func(Task) bool { return true })
}

// Task looks up a task by id.
func (s *Store) Task(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

// DraggingTaskID returns the drag cursor.
func (s *Store) DraggingTaskID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragging, s.dragging != ""
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// AddTask creates a task with a fresh id and returns it.
// Neither title nor status is validated.
func (s *Store) AddTask(title string, status Status) Task {
	t := Task{ID: s.newID(), Title: title, Status: status}
	s.mutate(ActionAddTask, func() bool {
		s.tasks[t.ID] = t
		return true
	})
	return t
}

// SetDraggingTaskID sets the drag cursor. The id is not checked.
func (s *Store) SetDraggingTaskID(id string) {
	s.mutate(ActionSetDraggingTaskID, func() bool {
		s.dragging = id
		return true
	})
}

// RemoveDraggingTaskID clears the drag cursor. It notifies even when the
// cursor was already clear.
func (s *Store) RemoveDraggingTaskID() {
	s.mutate(ActionRemoveDraggingTaskID, func() bool {
		s.dragging = ""
		return true
	})
}

// ChangeTaskStatus moves an existing task to status. Unknown ids are ignored.
func (s *Store) ChangeTaskStatus(id string, status Status) {
	s.mutate(ActionChangeTaskStatus, func() bool {
		t, ok := s.tasks[id]
		if !ok {
			s.logger.Debug("status change for unknown task ignored", zap.String("id", id))
			return false
		}
		t.Status = status
		s.tasks[id] = t
		return true
	})
}

// OnTaskDrop moves the dragged task to status and clears the cursor.
// Without a cursor it does nothing.
func (s *Store) OnTaskDrop(status Status) {
	id, ok := s.DraggingTaskID()
	if !ok {
		return
	}
	s.ChangeTaskStatus(id, status)
	s.RemoveDraggingTaskID()
}

// Reload replaces the in-memory state with the persisted one, if any.
func (s *Store) Reload(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	data, found, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.key, err)
	}
	if !found {
		return nil
	}
	state, err := Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", s.key, err)
	}
	s.replace(ActionRehydrate, state, false)
	return nil
}

// Reset removes the persisted state and restores the seed.
func (s *Store) Reset(ctx context.Context) error {
	if s.storage != nil {
		if err := s.Flush(ctx); err != nil {
			return err
		}
		if err := s.storage.RemoveItem(ctx, s.key); err != nil {
			return fmt.Errorf("remove %s: %w", s.key, err)
		}
	}
	s.replace(ActionReset, State{Tasks: s.seed}, false)
	return nil
}

// Flush waits for pending writes to reach storage.
func (s *Store) Flush(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Flush(ctx)
}

// Close flushes pending writes and stops the background writer.
func (s *Store) Close() {
	if s.persister != nil {
		s.persister.Close()
	}
}

// replace swaps in state. Listeners still run; persist selects whether the
// persistence hook sees the change.
func (s *Store) replace(action string, state State, persist bool) {
	s.mu.Lock()
	s.tasks = cloneTasks(state.Tasks)
	s.dragging = state.DraggingTaskID
	snap := s.snapshotLocked()
	listeners := s.listenersLocked(persist)
	s.mu.Unlock()

	s.notify(listeners, Change{Action: action, State: snap})
}

func (s *Store) mutate(action string, fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	listeners := s.listenersLocked(true)
	s.mu.Unlock()

	s.notify(listeners, Change{Action: action, State: snap})
}

func (s *Store) listenersLocked(includePersister bool) []*listenerEntry {
	out := make([]*listenerEntry, 0, len(s.listeners))
	for i, e := range s.listeners {
		if i == 0 && s.persister != nil && !includePersister {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *Store) notify(listeners []*listenerEntry, c Change) {
	// Each listener gets its own copy of the task map.
	for _, e := range listeners {
		e.fn(Change{Action: c.Action, State: c.State.Clone()})
	}
}

func (s *Store) snapshotLocked() State {
	return State{Tasks: cloneTasks(s.tasks), DraggingTaskID: s.dragging}
}
