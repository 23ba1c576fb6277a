package domain

import "strings"

// UserProfile is the public part of an account, stored under users/{uid}.
type UserProfile struct {
	UID       string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Email     string
	PhotoURL  string
}

func (u UserProfile) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return "Unknown"
	}
	return name
}
