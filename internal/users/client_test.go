package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func offlineClient() *Client {
	c := NewClient("")
	c.dir.cost = bcrypt.MinCost
	return c
}

func validRequest() RegisterRequest {
	return RegisterRequest{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "555-0100",
		Password:  "analytical",
	}
}

func TestRegisterValidation(t *testing.T) {
	require.Empty(t, validRequest().Validate())

	errs := RegisterRequest{Email: "not-an-email"}.Validate()
	require.Equal(t, map[string]string{
		"first_name": "register.error.required",
		"last_name":  "register.error.required",
		"email":      "register.error.email",
		"phone":      "register.error.required",
		"password":   "register.error.required",
	}, errs)

	_, err := offlineClient().Register(context.Background(), RegisterRequest{FirstName: "Ada"})
	require.ErrorIs(t, err, ErrInvalidUser)
}

func TestOfflineDirectory(t *testing.T) {
	ctx := context.Background()
	c := offlineClient()
	require.True(t, c.Offline())

	list, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	u, err := c.Register(ctx, validRequest())
	require.NoError(t, err)
	_, err = ulid.Parse(u.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", u.FullName())

	_, err = c.Register(ctx, RegisterRequest{FirstName: "A", LastName: "B", Email: "ADA@example.com", Phone: "1", Password: "x"})
	require.ErrorIs(t, err, ErrEmailTaken)

	got, err := c.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u, got)

	_, err = c.GetUser(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	logged, err := c.Login(ctx, "Ada@Example.com", "analytical")
	require.NoError(t, err)
	require.Equal(t, u.ID, logged.ID)

	_, err = c.Login(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = c.Login(ctx, "nobody@example.com", "analytical")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = c.Login(ctx, "", "")
	require.ErrorIs(t, err, ErrBadCredentials)

	list, err = c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRemoteUsers(t *testing.T) {
	var registered registerPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users":
			_, _ = w.Write([]byte(`[{"user_id":"u1","first_name":"Grace","last_name":"Hopper","email":"grace@example.com","created_at":"2024-01-01T00:00:00Z"}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/users/u1":
			_, _ = w.Write([]byte(`{"user_id":"u1","first_name":"Grace","last_name":"Hopper"}`))
		case r.Method == http.MethodGet:
			http.Error(w, "User with id missing not found", http.StatusNotFound)
		case r.URL.Path == "/users/register":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&registered))
			if registered.Email == "taken@example.com" {
				http.Error(w, "User with this email already exists", http.StatusConflict)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"user_id":"u2","first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`))
		case r.URL.Path == "/users/login":
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL + "/")
	require.False(t, c.Offline())

	list, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Grace Hopper", list[0].FullName())
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), list[0].CreatedAt.UTC())

	u, err := c.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)

	_, err = c.GetUser(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	created, err := c.Register(ctx, validRequest())
	require.NoError(t, err)
	require.Equal(t, "u2", created.ID)
	require.Equal(t, "Ada", registered.FirstName, "fields are trimmed before sending")
	require.Equal(t, "analytical", registered.Password)

	req := validRequest()
	req.Email = "taken@example.com"
	_, err = c.Register(ctx, req)
	require.ErrorIs(t, err, ErrEmailTaken)
	require.Contains(t, err.Error(), "already exists")

	_, err = c.Login(ctx, "ada@example.com", "nope")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestSortUsers(t *testing.T) {
	list := []User{
		{ID: "1", FirstName: "bob", LastName: "Young", Email: "z@example.com"},
		{ID: "2", FirstName: "Alice", LastName: "Zed", Email: "b@example.com"},
		{ID: "3", FirstName: "Carol", LastName: "Xu", Email: "a@example.com"},
	}
	ids := func(us []User) []string {
		out := make([]string, 0, len(us))
		for _, u := range us {
			out = append(out, u.ID)
		}
		return out
	}

	require.Equal(t, []string{"2", "1", "3"}, ids(Sort(list, SortNameAsc, "en")))
	require.Equal(t, []string{"3", "1", "2"}, ids(Sort(list, SortNameDesc, "en")))
	require.Equal(t, []string{"3", "2", "1"}, ids(Sort(list, SortEmailAsc, "")))
	require.Equal(t, []string{"1", "2", "3"}, ids(list), "input is not modified")

	require.Equal(t, SortEmailAsc, ParseSortKey("email-asc"))
	require.Equal(t, DefaultSort, ParseSortKey("price-asc"))
}
