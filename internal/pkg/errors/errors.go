package errors

import "errors"

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalid       = errors.New("invalid")
	ErrNotFound      = errors.New("not found")
	ErrQuotaExceeded = errors.New("upload limit reached")
	ErrMailFailed    = errors.New("mail send failed")
	ErrInternal      = errors.New("internal")
)

func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

func IsMailFailed(err error) bool {
	return errors.Is(err, ErrMailFailed)
}
