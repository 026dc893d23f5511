package api

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/service"
	"github.com/mmynk/tripsplit/internal/storage"
)

// toConnectError maps service and storage errors to Connect status codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	code := connect.CodeInternal
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		code = connect.CodeInvalidArgument
	case errors.Is(err, service.ErrFailedPrecondition):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		code = connect.CodeAlreadyExists
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	}
	return connect.NewError(code, err)
}
