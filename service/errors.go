package service

import (
	"github.com/pkg/errors"
)

type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindInvalidCredential Kind = "invalid_credential"
	KindRateLimited       Kind = "rate_limited"
	KindUpstream          Kind = "upstream_error"
	KindInternal          Kind = "internal_error"
	KindInvalidRequest    Kind = "invalid_request"
)

// User facing messages.
const (
	MsgMissingCredential = "API-nyckel saknas"
	MsgInvalidCredential = "Ogiltig API-nyckel. Kontrollera din OpenAI API-nyckel."
	MsgRateLimited       = "För många förfrågningar. Vänta en stund och försök igen."
	MsgUpstream          = "Fel vid anrop till AI-tjänsten"
	MsgUnknown           = "Okänt fel"
	MsgInvalidRequest    = "Ogiltig förfrågan"
	MsgResearchFallback  = "Tyvärr uppstod ett fel. Försök igen."
)

// Error is a classified gateway failure. Message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// internalError uses the root cause text as the caller message.
func internalError(cause error) *Error {
	message := MsgUnknown
	if cause != nil {
		if root := errors.Cause(cause); root != nil && root.Error() != "" {
			message = root.Error()
		}
	}
	return newError(KindInternal, message, cause)
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Kind) + ": " + e.cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Cause() error { return e.cause }

func (e *Error) Unwrap() error { return e.cause }

// KindOf classifies err. Errors that did not come from the gateway are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return KindInternal
}

// MessageOf returns the caller facing message for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return internalError(err).Message
}
