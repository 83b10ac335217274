package entity

import "time"

// Session is the in-memory authentication state for the current tab.
// It is never persisted; a zero Session means "guest".
type Session struct {
	AccessToken string
	UserID      int64
	Subject     string
	Role        string
	DisplayName string
	ExpiresAt   time.Time
}

func (s Session) LoggedIn() bool {
	return s.AccessToken != ""
}
