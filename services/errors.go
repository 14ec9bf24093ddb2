package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed    = errors.New("validation failed")
	ErrBracketInconsistent = errors.New("bracket data is inconsistent")
	ErrWinnerNotInMatch    = errors.New("winner is not a participant of the match")
	ErrResultLocked        = errors.New("result cannot be changed: the next match is already decided")

	ErrExportsDisabled         = errors.New("bracket exports are not configured")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
)
