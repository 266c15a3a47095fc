package server

// Failure texts carried in response messages. The connection always
// survives these; only protocol-level failures drop it.
const (
	msgNotAuthenticated     = "login required"
	msgAlreadyAuthenticated = "connection is already authenticated"
	msgUnauthorized         = "operation not permitted for this role"
	msgInvalidCredentials   = "invalid credentials"
	msgAccountDeactivated   = "account is deactivated"
	msgStorageUnavailable   = "storage unavailable, try again"
	msgTemplateNotFound     = "quiz template not found"
	msgEmptyTemplate        = "quiz template has no cards"
	msgNoActiveQuiz         = "no active quiz"
	msgNoCardsAvailable     = "no cards available for a quiz"
)
