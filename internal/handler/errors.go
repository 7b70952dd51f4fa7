package handler

import (
	"eau-clair-web/internal/service"
	"eau-clair-web/pkg/supabase"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const unexpectedError = "An unexpected error occurred. Please try again."

// userMessage is the text shown inline for a failed form submission:
// the sentinel, auth server or database message when there is one, a
// generic line otherwise.
func userMessage(err error) string {
	var apiErr *supabase.APIError
	var pgErr *pgconn.PgError
	var verr *service.ValidationError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &pgErr):
		return pgErr.Message
	case errors.As(err, &verr):
		return verr.Error()
	}
	for _, known := range []error{
		service.ErrProductNotFound,
		service.ErrInvalidCredentials,
		service.ErrEmailDomainNotAllowed,
		service.ErrPasswordMismatch,
		service.ErrInvalidResetLink,
		service.ErrProfileNotFound,
		service.ErrNotAdmin,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	zap.L().Error("unexpected handler error", zap.Error(err))
	return unexpectedError
}
