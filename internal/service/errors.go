package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/debitum/internal/auth"
	"github.com/mmynk/debitum/internal/middleware"
	"github.com/mmynk/debitum/internal/models"
)

// connectError maps a domain error onto a Connect error code.
func connectError(err error) *connect.Error {
	var accessErr *models.AccessError
	switch {
	case errors.Is(err, models.ErrEmptyName), errors.Is(err, models.ErrEmptyTransaction):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, models.ErrDuplicateName):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.As(err, &accessErr):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// ownerID returns the authenticated user, who owns the ledger being accessed.
func ownerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
