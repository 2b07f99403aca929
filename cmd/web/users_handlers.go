package main

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	mw "github.com/wasifsarwar/gocart/internal/middleware"
	"github.com/wasifsarwar/gocart/internal/observability"
	"github.com/wasifsarwar/gocart/internal/users"
)

const defaultLoginReturn = "/orders"

// UsersHandler renders the user directory sorted by ?sort=.
func (s *server) UsersHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	key := users.ParseSortKey(r.URL.Query().Get("sort"))
	list, err := s.users.ListUsers(r.Context())

	currentID := ""
	if u := mw.UserFromContext(r.Context()); u != nil {
		currentID = u.ID
	}
	view := buildUsersView(lang, list, key, currentID)
	if err != nil {
		observability.FromContext(r.Context()).Warn("list users failed", zap.Error(err))
		view.Error = s.bundle.T(lang, "users.failed")
		view.Empty = false
	}

	vm := s.basePage(r, "users.title", "users.description", "")
	vm.SEO.Robots = "noindex"
	vm.Content = view
	s.renderPage(w, r, "users", vm)
}

// RegisterPageHandler renders an empty registration form.
func (s *server) RegisterPageHandler(w http.ResponseWriter, r *http.Request) {
	s.renderRegister(w, r, http.StatusOK, RegisterView{Values: map[string]string{}})
}

// RegisterHandler creates an account from the posted form. It does not sign the user in.
func (s *server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	req := users.RegisterRequest{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Email:     r.PostFormValue("email"),
		Phone:     r.PostFormValue("phone"),
		Password:  r.PostFormValue("password"),
	}
	view := RegisterView{Values: registerValues(req), Errors: map[string]string{}}
	if errs := req.Validate(); len(errs) > 0 {
		for field, key := range errs {
			view.Errors[field] = s.bundle.T(lang, key)
		}
		s.renderRegister(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	u, err := s.users.Register(r.Context(), req)
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		view.Errors["email"] = s.bundle.T(lang, "register.error.taken")
		s.renderRegister(w, r, http.StatusConflict, view)
		return
	case errors.Is(err, users.ErrInvalidUser):
		view.Error = s.bundle.T(lang, "register.invalid")
		s.renderRegister(w, r, http.StatusUnprocessableEntity, view)
		return
	case err != nil:
		observability.FromContext(r.Context()).Warn("register failed", zap.Error(err))
		view.Error = s.bundle.T(lang, "register.failed")
		s.renderRegister(w, r, http.StatusBadGateway, view)
		return
	}

	observability.FromContext(r.Context()).Info("user registered", zap.String("user_id", u.ID))
	s.renderRegister(w, r, http.StatusCreated, RegisterView{
		Values:  map[string]string{},
		Created: s.bundle.Tf(lang, "register.success", u.FullName()),
	})
}

func (s *server) renderRegister(w http.ResponseWriter, r *http.Request, status int, view RegisterView) {
	view.Lang = mw.Lang(r)
	view.CSRFToken = mw.CSRFToken(r)
	vm := s.basePage(r, "register.title", "register.description", "")
	vm.SEO.Robots = "noindex"
	vm.Content = view
	s.renderPageStatus(w, r, status, "register", vm)
}

// LoginPageHandler renders the sign-in form.
func (s *server) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, http.StatusOK, LoginView{Return: localPath(r.URL.Query().Get("return"))})
}

// LoginHandler checks credentials, records the user on the session and keeps
// the shopper's cart, favorites and recently viewed products across the
// session id rotation.
func (s *server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	logger := observability.FromContext(r.Context())
	email := strings.TrimSpace(r.PostFormValue("email"))
	view := LoginView{Email: email, Return: localPath(r.PostFormValue("return"))}

	u, err := s.users.Login(r.Context(), email, r.PostFormValue("password"))
	switch {
	case errors.Is(err, users.ErrBadCredentials):
		view.Error = s.bundle.T(lang, "login.invalid")
		s.renderLogin(w, r, http.StatusUnauthorized, view)
		return
	case err != nil:
		logger.Warn("login failed", zap.Error(err))
		view.Error = s.bundle.T(lang, "login.failed")
		s.renderLogin(w, r, http.StatusBadGateway, view)
		return
	}

	sess := mw.GetSession(r)
	previous := sess.ID
	sess.SignIn(u.ID)
	s.store.Move(previous, sess.ID)
	users.NewProfile(s.store.Bucket(sess.ID), logger).Save(u)
	logger.Info("user signed in", zap.String("user_id", u.ID))

	target := view.Return
	if target == "" {
		target = defaultLoginReturn
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// LogoutHandler signs the user out. The shopper keeps their cart as a guest.
func (s *server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	if sess.UserID != "" {
		previous := sess.ID
		sess.SignOut()
		s.store.Move(previous, sess.ID)
		users.NewProfile(s.store.Bucket(sess.ID), observability.FromContext(r.Context())).Clear()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) renderLogin(w http.ResponseWriter, r *http.Request, status int, view LoginView) {
	view.Lang = mw.Lang(r)
	view.CSRFToken = mw.CSRFToken(r)
	vm := s.basePage(r, "login.title", "login.description", "")
	vm.SEO.Robots = "noindex"
	vm.Content = view
	s.renderPageStatus(w, r, status, "login", vm)
}

// localPath keeps same-site absolute paths and rejects everything else.
func localPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return ""
	}
	return raw
}
