package user_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/page"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/timeutil"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/user"
)

// memoryStore mimics the postgres storage: ids are never reused, emails are
// unique and every create happens one second after the previous one.
type memoryStore struct {
	mu     sync.Mutex
	lastID int64
	users  map[int64]*user.User
	clock  time.Time
	// err, when set, is returned by every operation.
	err error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: map[int64]*user.User{},
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) Users(_ context.Context, pag *page.Pagination) ([]*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	users := make([]*user.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		users = append(users, &c)
	}
	slices.SortFunc(users, func(a, b *user.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt.Time); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})

	if pag == nil {
		return users, nil
	}
	start := min(pag.Offset(), len(users))
	end := min(start+pag.Limit(), len(users))
	return users[start:end], nil
}

func (m *memoryStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return len(m.users), nil
}

func (m *memoryStore) User(_ context.Context, id int64) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	c := *u
	c.PasswordHash = ""
	return &c, nil
}

func (m *memoryStore) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	if m.emailTaken(u.Email, 0) {
		return user.ErrAlreadyExists
	}

	m.lastID++
	m.clock = m.clock.Add(time.Second)
	u.ID = m.lastID
	u.CreatedAt = timeutil.NewDateTime(m.clock)
	c := *u
	m.users[u.ID] = &c
	return nil
}

func (m *memoryStore) Update(_ context.Context, id int64, p user.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	u, ok := m.users[id]
	if !ok {
		return user.ErrNotFound
	}
	if m.emailTaken(p.Email, id) {
		return user.ErrAlreadyExists
	}

	u.Name = p.Name
	u.Email = p.Email
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.BirthDate != nil {
		u.BirthDate = p.BirthDate
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	if _, ok := m.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// passwordHash returns the stored hash, which the store never hands back
// through User.
func (m *memoryStore) passwordHash(id int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].PasswordHash
}

func (m *memoryStore) emailTaken(email string, exceptID int64) bool {
	for id, u := range m.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
