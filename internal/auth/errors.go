package auth

import "strings"

// Error is a sign-in or account-management failure with a fixed
// user-facing message. Field, when set, names the form field the message
// belongs to.
type Error struct {
	Code    string
	Message string
	Field   string
}

func (e *Error) Error() string {
	return e.Message
}

const genericAuthMessage = "An unexpected error occurred. Please try again."

var messageByCode = map[string]string{
	"INVALID_EMAIL":             "Invalid email address.",
	"USER_DISABLED":             "This user account has been disabled.",
	"EMAIL_NOT_FOUND":           "Invalid email or password.",
	"INVALID_PASSWORD":          "Invalid email or password.",
	"INVALID_LOGIN_CREDENTIALS": "Invalid email or password.",
	"EMAIL_EXISTS":              "This email address is already in use.",
	"OPERATION_NOT_ALLOWED":     "Email/password accounts are not enabled.",
	"WEAK_PASSWORD":             "The password is too weak.",
}

// newError maps an identity-provider error code to its fixed message.
// Codes sometimes arrive with a trailing explanation, e.g.
// "WEAK_PASSWORD : Password should be at least 6 characters".
func newError(code string) *Error {
	normalized := strings.TrimSpace(code)
	if i := strings.IndexAny(normalized, " :"); i > 0 {
		normalized = normalized[:i]
	}
	msg, ok := messageByCode[normalized]
	if !ok {
		msg = genericAuthMessage
	}
	return &Error{Code: normalized, Message: msg}
}

func (e *Error) withField(field string) *Error {
	e.Field = field
	return e
}
