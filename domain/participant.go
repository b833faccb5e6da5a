// Package domain contains core concepts of the chat system.
// This file defines the user profile shown next to delivered messages.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"strings"
	"time"
	"unicode"
)

// MaxUserIDLength bounds a user identity.
const MaxUserIDLength = 64

// userIDSeparators are the characters the store uses to build its index keys.
const userIDSeparators = "|:"

// IsUserID reports whether id can identify a participant: non empty, bounded,
// without spaces, control characters or index key separators.
func IsUserID(id string) bool {
	if id == "" || len(id) > MaxUserIDLength || strings.ContainsAny(id, userIDSeparators) {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) < 0
}

// Profile holds the display fields of a user.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Image     string `json:"image,omitempty"`
	Color     int    `json:"color"`
}

// Account is the credential record of a registered user.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}
