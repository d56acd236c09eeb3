package user

import "time"

// AnonymousName is shown for users without a display name.
const AnonymousName = "Anonymous"

// User is a registered account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the user's name, falling back to AnonymousName.
func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return AnonymousName
	}
	return u.Name
}

// Registration is returned once when a user is created. The token is never
// stored in plaintext.
type Registration struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
