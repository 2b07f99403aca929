package main

import (
	"net/http"

	"github.com/wasifsarwar/gocart/internal/cart"
	"github.com/wasifsarwar/gocart/internal/favorites"
	mw "github.com/wasifsarwar/gocart/internal/middleware"
	"github.com/wasifsarwar/gocart/internal/observability"
	"github.com/wasifsarwar/gocart/internal/recent"
	"github.com/wasifsarwar/gocart/internal/users"
)

// The stores are cheap views over the session bucket; build them per request.

func (s *server) favoritesStore(r *http.Request) *favorites.Store {
	return favorites.New(mw.Bucket(r), observability.FromContext(r.Context()))
}

func (s *server) recentStore(r *http.Request) *recent.Store {
	return recent.New(mw.Bucket(r), observability.FromContext(r.Context()))
}

func (s *server) cartStore(r *http.Request) *cart.Store {
	return cart.New(mw.Bucket(r), observability.FromContext(r.Context()))
}

func (s *server) profileStore(r *http.Request) *users.Profile {
	return users.NewProfile(mw.Bucket(r), observability.FromContext(r.Context()))
}

// accountName is the header greeting: the cached profile name, or the raw user
// id for sessions signed in without one (debug bearer).
func (s *server) accountName(r *http.Request) string {
	u := mw.UserFromContext(r.Context())
	if u == nil {
		return ""
	}
	if p, ok := s.profileStore(r).Load(); ok && p.ID == u.ID {
		if name := p.FullName(); name != "" {
			return name
		}
	}
	return u.ID
}
