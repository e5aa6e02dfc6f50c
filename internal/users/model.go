package users

import (
	"strings"
	"time"
)

// User is an account holder. PasswordHash is empty for accounts created
// through Google sign-in.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Phone        string      `json:"phone"`
	FullName     string      `json:"fullName"`
	PictureURL   string      `json:"pictureUrl"`
	PasswordHash string      `json:"-"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Preferences are the notification switches on the profile page.
type Preferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	MarketingEmails    bool `json:"marketingEmails"`
	ProductUpdates     bool `json:"productUpdates"`
}

func DefaultPreferences() Preferences {
	return Preferences{EmailNotifications: true, ProductUpdates: true}
}

// DisplayName prefers first and last name over the stored full name.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
