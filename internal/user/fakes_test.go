package user

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User
	calls  map[string]int
}

func newMemStore(users ...*User) *memStore {
	s := &memStore{users: map[int64]*User{}, calls: map[string]int{}}
	for _, u := range users {
		s.users[u.ID] = u
		if u.ID > s.nextID {
			s.nextID = u.ID
		}
	}
	return s
}

func (s *memStore) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *memStore) record(op string) {
	s.calls[op]++
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (s *memStore) Create(_ context.Context, req *CreateUserRequest) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("create")
	s.nextID++
	u := &User{
		ID:        s.nextID,
		Username:  req.Username,
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
		IsAdmin:   req.IsAdmin,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func (s *memStore) GetByID(_ context.Context, id int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("get_by_id")
	return cloneUser(s.users[id]), nil
}

func (s *memStore) GetByUsername(_ context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("get_by_username")
	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *memStore) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*User
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, cloneUser(s.users[ids[i]]))
	}
	return out, len(ids), nil
}

func (s *memStore) Update(_ context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.AvatarURL != nil {
		u.AvatarURL = req.AvatarURL
	}
	return cloneUser(u), nil
}

func (s *memStore) SetBanned(_ context.Context, id int64, banned bool) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u.Banned = banned
	return cloneUser(u), nil
}

func (s *memStore) SetIconTime(_ context.Context, id int64, at *time.Time) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("set_icon_time")
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u.IconTime = at
	return cloneUser(u), nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type memCache struct {
	byID       map[int64]*User
	byUsername map[string]*User
	failReads  bool
}

func newMemCache() *memCache {
	return &memCache{byID: map[int64]*User{}, byUsername: map[string]*User{}}
}

func (c *memCache) GetByID(_ context.Context, id int64) (*User, error) {
	if c.failReads {
		return nil, errors.New("connection refused")
	}
	u, ok := c.byID[id]
	if !ok {
		return nil, ErrCacheMiss
	}
	return cloneUser(u), nil
}

func (c *memCache) GetByUsername(_ context.Context, username string) (*User, error) {
	if c.failReads {
		return nil, errors.New("connection refused")
	}
	u, ok := c.byUsername[username]
	if !ok {
		return nil, ErrCacheMiss
	}
	return cloneUser(u), nil
}

func (c *memCache) Set(_ context.Context, u *User) error {
	c.byID[u.ID] = cloneUser(u)
	c.byUsername[u.Username] = cloneUser(u)
	return nil
}

func (c *memCache) Invalidate(_ context.Context, u *User) error {
	delete(c.byID, u.ID)
	delete(c.byUsername, u.Username)
	return nil
}
