package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/events"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/realtime"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/repository"
)

// In-memory repositories mirroring the Postgres behavior the services rely
// on: Create assigns server-side ids, gets return pgx.ErrNoRows for misses.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.Role, _, _ int) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders     map[string]*domain.Order
	seq        int
	lastFilter repository.OrderFilter
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if order.ID == "" {
		r.seq++
		order.ID = fmt.Sprintf("order-%d", r.seq)
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *domain.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return pgx.ErrNoRows
	}
	order.UpdatedAt = time.Now()
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *order
	return &clone, nil
}

func (r *fakeOrderRepo) GetByExternalKey(_ context.Context, key string) (*domain.Order, error) {
	for _, order := range r.orders {
		if order.ExternalKey == key {
			clone := *order
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeOrderRepo) ListWithFilter(_ context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	r.lastFilter = filter
	out := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		out = append(out, *order)
	}
	return out, nil
}

type fakeTaskRepo struct {
	tasks map[string]*domain.Task
	seq   int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	if task.ID == "" {
		r.seq++
		task.ID = fmt.Sprintf("task-%d", r.seq)
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	task.UpdatedAt = time.Now()
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *task
	return &clone, nil
}

func (r *fakeTaskRepo) ListByOrder(_ context.Context, orderID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.tasks {
		if task.OrderID == orderID {
			out = append(out, *task)
		}
	}
	return out, nil
}

type fakeTaskFileRepo struct {
	files map[string][]domain.TaskFile
	seq   int
}

func newFakeTaskFileRepo() *fakeTaskFileRepo {
	return &fakeTaskFileRepo{files: make(map[string][]domain.TaskFile)}
}

func (r *fakeTaskFileRepo) Create(_ context.Context, file *domain.TaskFile) error {
	if file.ID == "" {
		r.seq++
		file.ID = fmt.Sprintf("file-%d", r.seq)
	}
	file.CreatedAt = time.Now()
	r.files[file.TaskID] = append(r.files[file.TaskID], *file)
	return nil
}

func (r *fakeTaskFileRepo) ListByTask(_ context.Context, taskID string) ([]domain.TaskFile, error) {
	return r.files[taskID], nil
}

type fakeMessageRepo struct {
	messages map[string]*domain.Message
	seq      int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]*domain.Message)}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		r.seq++
		msg.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	msg.CreatedAt = time.Now()
	clone := *msg
	r.messages[msg.ID] = &clone
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	msg, ok := r.messages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *msg
	return &clone, nil
}

func (r *fakeMessageRepo) ListConversation(_ context.Context, userA, userB string, _, _ int) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range r.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA) {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkEmailFallbackUsed(_ context.Context, id string) (bool, error) {
	msg, ok := r.messages[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if msg.EmailFallbackUsed {
		return false, nil
	}
	msg.EmailFallbackUsed = true
	return true, nil
}

type fakeHistoryRepo struct {
	entries []domain.OrderHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.OrderHistory) error {
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("hist-%d", len(r.entries)+1)
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByOrder(_ context.Context, orderID string, _, _ int) ([]domain.OrderHistory, error) {
	var out []domain.OrderHistory
	for _, entry := range r.entries {
		if entry.OrderID == orderID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) byType(changeType domain.OrderChangeType) []domain.OrderHistory {
	var out []domain.OrderHistory
	for _, entry := range r.entries {
		if entry.ChangeType == changeType {
			out = append(out, entry)
		}
	}
	return out
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, event := range d.published {
		out = append(out, event.Type)
	}
	return out
}

// offlineBroadcaster drops every frame so routed payloads take the fallback.
type offlineBroadcaster struct{}

func (offlineBroadcaster) Send(_ string, _ realtime.Envelope) bool { return false }

// onlineBroadcaster accepts every frame.
type onlineBroadcaster struct {
	sent []realtime.Envelope
}

func (b *onlineBroadcaster) Send(_ string, envelope realtime.Envelope) bool {
	b.sent = append(b.sent, envelope)
	return true
}
