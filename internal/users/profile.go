package users

import (
	"go.uber.org/zap"

	"github.com/wasifsarwar/gocart/internal/storage"
)

// ProfileKey is the storage key holding the signed-in user's profile.
const ProfileKey = "gocart.user.v1"

// Profile caches the signed-in user in the session bucket so pages can greet
// them without a user service call. Storage failures read as "signed out".
type Profile struct {
	kv     storage.KV
	logger *zap.Logger
}

// NewProfile binds a Profile to kv.
func NewProfile(kv storage.KV, logger *zap.Logger) *Profile {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profile{kv: kv, logger: logger}
}

// Load returns the cached user. ok is false when nothing usable is stored.
func (p *Profile) Load() (u User, ok bool) {
	var raw userPayload
	found, err := storage.ReadJSON(p.kv, ProfileKey, &raw)
	if err != nil {
		p.logger.Debug("profile read failed", zap.Error(err))
		return User{}, false
	}
	if !found || raw.UserID == "" {
		return User{}, false
	}
	return raw.toUser(), true
}

// Save stores u, replacing any cached profile.
func (p *Profile) Save(u User) {
	raw := userPayload{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
	if err := storage.WriteJSON(p.kv, ProfileKey, raw); err != nil {
		p.logger.Debug("profile write failed", zap.Error(err))
	}
}

// Clear forgets the cached profile.
func (p *Profile) Clear() {
	if p.kv != nil {
		p.kv.Remove(ProfileKey)
	}
}
