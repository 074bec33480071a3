package profile

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxDisplayNameLength = 100
	MaxSpecialtyLength   = 100

	DefaultSpecialty   = "General"
	providerTitle      = "Dr. "
	fallbackProvider   = "Doctor"
	fallbackSeekerName = "Patient"
)

var (
	ErrInvalidRole         = errors.New("invalid role")
	ErrDisplayNameTooLong  = errors.New("display name too long")
	ErrSpecialtyTooLong    = errors.New("specialty too long")
	ErrSpecialtyNotAllowed = errors.New("specialty is only allowed for providers")
	ErrProfileNotFound     = errors.New("profile not found")
)

type DisplayName struct {
	value string
}

func NewDisplayName(s string) (DisplayName, error) {
	t := strings.TrimSpace(s)
	if utf8.RuneCountInString(t) > MaxDisplayNameLength {
		return DisplayName{}, ErrDisplayNameTooLong
	}
	return DisplayName{value: t}, nil
}

func (d DisplayName) String() string { return d.value }
func (d DisplayName) IsEmpty() bool  { return d.value == "" }

type Specialty struct {
	value string
}

func NewSpecialty(s string) (Specialty, error) {
	t := strings.TrimSpace(s)
	if utf8.RuneCountInString(t) > MaxSpecialtyLength {
		return Specialty{}, ErrSpecialtyTooLong
	}
	return Specialty{value: t}, nil
}

// String falls back to DefaultSpecialty when unset.
func (s Specialty) String() string {
	if s.value == "" {
		return DefaultSpecialty
	}
	return s.value
}

func (s Specialty) Raw() string { return s.value }

// ProviderDisplayName is the name stamped onto new slots.
func ProviderDisplayName(name string) string {
	t := strings.TrimSpace(name)
	if t == "" {
		return fallbackProvider
	}
	if strings.HasPrefix(t, providerTitle) {
		return t
	}
	return providerTitle + t
}

// SeekerDisplayName is the name stamped onto a booking.
func SeekerDisplayName(name string) string {
	t := strings.TrimSpace(name)
	if t == "" {
		return fallbackSeekerName
	}
	return t
}
