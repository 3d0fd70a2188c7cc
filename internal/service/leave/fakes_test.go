package leave

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
)

// memStore backs every fake repository so the fake transactor can roll all of them back together.
type memStore struct {
	mu         sync.Mutex
	seq        int
	types      map[string]leave.LeaveType
	balances   map[string]leave.Balance
	requests   map[string]leave.Request
	users      map[string]user.User
	activities []profile.Activity
}

func newMemStore() *memStore {
	return &memStore{
		types:    make(map[string]leave.LeaveType),
		balances: make(map[string]leave.Balance),
		requests: make(map[string]leave.Request),
		users:    make(map[string]user.User),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type snapshot struct {
	types      map[string]leave.LeaveType
	balances   map[string]leave.Balance
	requests   map[string]leave.Request
	activities []profile.Activity
}

func (m *memStore) snapshot() snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot{
		types:      maps.Clone(m.types),
		balances:   maps.Clone(m.balances),
		requests:   maps.Clone(m.requests),
		activities: append([]profile.Activity(nil), m.activities...),
	}
}

func (m *memStore) restore(s snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types, m.balances, m.requests, m.activities = s.types, s.balances, s.requests, s.activities
}

func (m *memStore) addUser(u user.User) user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return u
}

func (m *memStore) addType(name string, maxDays int) leave.LeaveType {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := leave.LeaveType{ID: m.nextID("type"), Name: name, MaxDays: maxDays}
	m.types[t.ID] = t
	return t
}

func (m *memStore) balance(userID, typeID string, year int) (leave.Balance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.balances {
		if b.UserID == userID && b.LeaveTypeID == typeID && b.Year == year {
			return m.withType(b), true
		}
	}
	return leave.Balance{}, false
}

func (m *memStore) withType(b leave.Balance) leave.Balance {
	t := m.types[b.LeaveTypeID]
	b.LeaveTypeName = t.Name
	b.MaxDays = t.MaxDays
	return b
}

// ===== Transactor =====

type fakeTransactor struct {
	store *memStore
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	snap := f.store.snapshot()
	if err := fn(ctx); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

// ===== Leave types =====

type fakeTypeRepo struct {
	store *memStore
}

func (f *fakeTypeRepo) Create(ctx context.Context, t leave.LeaveType) (leave.LeaveType, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, existing := range f.store.types {
		if strings.EqualFold(existing.Name, t.Name) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	t.ID = f.store.nextID("type")
	f.store.types[t.ID] = t
	return t, nil
}

func (f *fakeTypeRepo) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (f *fakeTypeRepo) GetByName(ctx context.Context, name string) (leave.LeaveType, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, t := range f.store.types {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (f *fakeTypeRepo) List(ctx context.Context) ([]leave.LeaveType, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]leave.LeaveType, 0, len(f.store.types))
	for _, t := range f.store.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTypeRepo) Update(ctx context.Context, id string, req leave.UpdateLeaveTypeRequest) (leave.LeaveType, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	if req.Name != nil {
		for _, other := range f.store.types {
			if other.ID != id && strings.EqualFold(other.Name, *req.Name) {
				return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
			}
		}
		t.Name = *req.Name
	}
	if req.MaxDays != nil {
		t.MaxDays = *req.MaxDays
	}
	f.store.types[id] = t
	return t, nil
}

func (f *fakeTypeRepo) Delete(ctx context.Context, id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if _, ok := f.store.types[id]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	delete(f.store.types, id)
	return nil
}

func (f *fakeTypeRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, b := range f.store.balances {
		if b.LeaveTypeID == id {
			return true, nil
		}
	}
	for _, r := range f.store.requests {
		if r.LeaveTypeID == id {
			return true, nil
		}
	}
	return false, nil
}

// ===== Balances =====

type fakeBalanceRepo struct {
	store *memStore
	locks int
}

func (f *fakeBalanceRepo) insert(b leave.Balance) (leave.Balance, error) {
	for _, existing := range f.store.balances {
		if existing.UserID == b.UserID && existing.LeaveTypeID == b.LeaveTypeID && existing.Year == b.Year {
			return leave.Balance{}, leave.ErrBalanceExists
		}
	}
	if _, ok := f.store.types[b.LeaveTypeID]; !ok {
		return leave.Balance{}, leave.ErrLeaveTypeNotFound
	}
	b.ID = f.store.nextID("balance")
	f.store.balances[b.ID] = b
	return f.store.withType(b), nil
}

func (f *fakeBalanceRepo) Create(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.insert(b)
}

func (f *fakeBalanceRepo) CreateMissing(ctx context.Context, userID string, year int) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var created int64
	for _, t := range f.store.types {
		if _, err := f.insert(leave.Balance{UserID: userID, LeaveTypeID: t.ID, Year: year}); err == nil {
			created++
		}
	}
	return created, nil
}

func (f *fakeBalanceRepo) GetByID(ctx context.Context, id string) (leave.Balance, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	b, ok := f.store.balances[id]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return f.store.withType(b), nil
}

func (f *fakeBalanceRepo) Get(ctx context.Context, userID, leaveTypeID string, year int) (leave.Balance, error) {
	b, ok := f.store.balance(userID, leaveTypeID, year)
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (f *fakeBalanceRepo) ListByUser(ctx context.Context, userID string) ([]leave.Balance, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]leave.Balance, 0)
	for _, b := range f.store.balances {
		if b.UserID == userID {
			out = append(out, f.store.withType(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].LeaveTypeName < out[j].LeaveTypeName
	})
	return out, nil
}

func (f *fakeBalanceRepo) ListByUserAndYear(ctx context.Context, userID string, year int) ([]leave.Balance, error) {
	all, _ := f.ListByUser(ctx, userID)
	out := make([]leave.Balance, 0)
	for _, b := range all {
		if b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBalanceRepo) Adjust(ctx context.Context, id string, year int, carryover, used float64) (leave.Balance, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	b, ok := f.store.balances[id]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	b.Year, b.Carryover, b.Used = year, carryover, used
	f.store.balances[id] = b
	return f.store.withType(b), nil
}

func (f *fakeBalanceRepo) LockForUpdate(ctx context.Context, userID, leaveTypeID string, year int) (leave.Balance, error) {
	f.locks++
	if b, ok := f.store.balance(userID, leaveTypeID, year); ok {
		return b, nil
	}
	return f.Create(ctx, leave.Balance{UserID: userID, LeaveTypeID: leaveTypeID, Year: year})
}

func (f *fakeBalanceRepo) SetUsed(ctx context.Context, id string, used float64) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	b, ok := f.store.balances[id]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	b.Used = used
	f.store.balances[id] = b
	return nil
}

// ===== Requests =====

type fakeRequestRepo struct {
	store           *memStore
	failJoinedQuery bool
}

func (f *fakeRequestRepo) Create(ctx context.Context, r leave.Request) (leave.Request, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	r.ID = f.store.nextID("request")
	r.CreatedAt = time.Now().Add(time.Duration(f.store.seq) * time.Millisecond)
	f.store.requests[r.ID] = r
	return r, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (leave.Request, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	r, ok := f.store.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, r leave.Request) (leave.Request, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if _, ok := f.store.requests[r.ID]; !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	f.store.requests[r.ID] = r
	return r, nil
}

func (f *fakeRequestRepo) filter(keep func(leave.Request) bool, newestFirst bool) []leave.Request {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]leave.Request, 0)
	for _, r := range f.store.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *fakeRequestRepo) ListByUser(ctx context.Context, userID string) ([]leave.Request, error) {
	return f.filter(func(r leave.Request) bool { return r.UserID == userID }, true), nil
}

func (f *fakeRequestRepo) ListPending(ctx context.Context) ([]leave.Request, error) {
	return f.filter(func(r leave.Request) bool { return r.Status == leave.StatusPending }, false), nil
}

func (f *fakeRequestRepo) ListAllWithRelations(ctx context.Context) ([]leave.Request, error) {
	if f.failJoinedQuery {
		return nil, fmt.Errorf("relation \"leave_types\" does not exist")
	}
	return f.filter(func(leave.Request) bool { return true }, true), nil
}

func (f *fakeRequestRepo) ListAll(ctx context.Context) ([]leave.Request, error) {
	return f.filter(func(leave.Request) bool { return true }, true), nil
}

func (f *fakeRequestRepo) HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	overlapping := f.filter(func(r leave.Request) bool {
		active := r.Status == leave.StatusPending || r.Status == leave.StatusApproved
		return r.UserID == userID && active && !r.StartDate.After(end) && !r.EndDate.Before(start)
	}, false)
	return len(overlapping) > 0, nil
}

// ===== Users =====

type fakeUserRepo struct {
	user.UserRepository
	store *memStore
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	u, ok := f.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ListActiveByRoles(ctx context.Context, roles []user.Role) ([]user.User, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []user.User
	for _, u := range f.store.users {
		if !u.IsActive {
			continue
		}
		for _, r := range roles {
			if u.HasRole(r) {
				out = append(out, u)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ===== Activities =====

type fakeActivityRepo struct {
	store *memStore
}

func (f *fakeActivityRepo) Append(ctx context.Context, a profile.Activity) (profile.Activity, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	a.ID = f.store.nextID("activity")
	f.store.activities = append(f.store.activities, a)
	return a, nil
}

func (f *fakeActivityRepo) ListByUser(ctx context.Context, userID string, limit int) ([]profile.Activity, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []profile.Activity
	for _, a := range f.store.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ===== Notifier =====

type sentNotification struct {
	Event      notification.Event
	Payload    notification.LeavePayload
	Recipients []notification.Recipient
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (f *fakeNotifier) Notify(ctx context.Context, event notification.Event, payload notification.LeavePayload, recipients []notification.Recipient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{Event: event, Payload: payload, Recipients: recipients})
}
