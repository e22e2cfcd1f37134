package services

import (
	"errors"

	"github.com/Dosada05/bracket-system/brackets"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrInvalidEmail     = errors.New("email address is not valid")
	ErrInvalidRole      = errors.New("role must be host or viewer")
	ErrTieNotAllowed    = errors.New("knockout matches cannot end in a tie")

	// Ошибки движка сетки; те же значения, что и в пакете brackets
	ErrInsufficientEntrants = brackets.ErrInsufficientEntrants
	ErrInvalidSlot          = brackets.ErrInvalidSlot

	ErrEntrantNameConflict = errors.New("entrant name already exists in this tournament")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrUserNotFound       = errors.New("user not found")
)
