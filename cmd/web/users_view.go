package main

import (
	"github.com/wasifsarwar/gocart/internal/format"
	"github.com/wasifsarwar/gocart/internal/users"
)

// UsersView is the sortable user directory.
type UsersView struct {
	Lang        string
	Sort        string
	SortOptions []SelectOption
	Users       []UserRow
	Empty       bool
	Error       string
}

// UserRow is one entry of the user directory.
type UserRow struct {
	ID     string
	Name   string
	Email  string
	Phone  string
	Joined string
	// Current marks the signed-in user.
	Current bool
}

// RegisterView backs the registration form. Values echo the submitted fields
// except the password; Errors holds translated per-field messages.
type RegisterView struct {
	Lang      string
	CSRFToken string
	Values    map[string]string
	Errors    map[string]string
	Error     string
	Created   string
}

// LoginView backs the sign-in form.
type LoginView struct {
	Lang      string
	CSRFToken string
	Email     string
	Return    string
	Error     string
}

var userSortLabels = map[users.SortKey]string{
	users.SortNameAsc:  "users.sort.nameAsc",
	users.SortNameDesc: "users.sort.nameDesc",
	users.SortEmailAsc: "users.sort.emailAsc",
}

func buildUsersView(lang string, list []users.User, key users.SortKey, currentID string) UsersView {
	view := UsersView{Lang: lang, Sort: string(key)}
	for _, k := range users.SortKeys {
		view.SortOptions = append(view.SortOptions, SelectOption{
			Value:    string(k),
			LabelKey: userSortLabels[k],
			Selected: k == key,
		})
	}
	for _, u := range users.Sort(list, key, lang) {
		row := UserRow{
			ID:      u.ID,
			Name:    u.FullName(),
			Email:   u.Email,
			Phone:   u.Phone,
			Current: u.ID == currentID,
		}
		if !u.CreatedAt.IsZero() {
			row.Joined = format.Date(u.CreatedAt, lang)
		}
		view.Users = append(view.Users, row)
	}
	view.Empty = len(view.Users) == 0
	return view
}

func registerValues(req users.RegisterRequest) map[string]string {
	return map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"email":      req.Email,
		"phone":      req.Phone,
	}
}
