package users

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	user User
	hash []byte
}

// directory keeps accounts in memory when no user service is configured.
type directory struct {
	mu      sync.RWMutex
	cost    int
	byID    map[string]*account
	byEmail map[string]*account
	order   []string
}

func newDirectory() *directory {
	return &directory{
		cost:    bcrypt.DefaultCost,
		byID:    make(map[string]*account),
		byEmail: make(map[string]*account),
	}
}

func (d *directory) register(req RegisterRequest, now time.Time) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), d.cost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	key := strings.ToLower(req.Email)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.byEmail[key]; taken {
		return User{}, ErrEmailTaken
	}
	acc := &account{
		user: User{
			ID:        ulid.Make().String(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		},
		hash: hash,
	}
	d.byID[acc.user.ID] = acc
	d.byEmail[key] = acc
	d.order = append(d.order, acc.user.ID)
	return acc.user, nil
}

func (d *directory) get(id string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acc, ok := d.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return acc.user, nil
}

func (d *directory) list() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]User, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id].user)
	}
	return out
}

func (d *directory) login(email, password string) (User, error) {
	d.mu.RLock()
	acc, ok := d.byEmail[strings.ToLower(email)]
	d.mu.RUnlock()
	if !ok {
		return User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}
	return acc.user, nil
}
