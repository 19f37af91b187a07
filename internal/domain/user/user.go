package user

import "errors"

// Mode is the acting role a logged-in user has currently selected.
// It is mutable at any time.
type Mode string

const (
	ModeRider     Mode = "rider"
	ModePassenger Mode = "passenger"
)

// User represents a logged-in user. Created at login; there is no
// account storage beyond the app-state document.
type User struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone"`
	Rating float64 `json:"rating"`
	Mode   Mode    `json:"mode"`
}

var (
	ErrInvalidName   = errors.New("invalid user name")
	ErrInvalidEmail  = errors.New("invalid user email")
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
	ErrInvalidMode   = errors.New("invalid user mode")
)

// IsValid validates the user entity
func (u *User) IsValid() error {
	if u.Name == "" {
		return ErrInvalidName
	}
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.Rating < 0 || u.Rating > 5 {
		return ErrInvalidRating
	}
	if !u.Mode.IsValid() {
		return ErrInvalidMode
	}
	return nil
}

// IsValid validates the mode
func (m Mode) IsValid() bool {
	switch m {
	case ModeRider, ModePassenger:
		return true
	}
	return false
}
