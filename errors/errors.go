package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrEmptyWords           = fmt.Errorf("no words have been found")
	ErrValidation           = fmt.Errorf("validation failed")
	ErrNotFound             = fmt.Errorf("not found")
	ErrForbidden            = fmt.Errorf("forbidden")
	ErrStatusConflict       = fmt.Errorf("message status changed concurrently")
	ErrInvalidTransition    = fmt.Errorf("invalid status transition")
	ErrConnectionClosed     = fmt.Errorf("connection closed")
	ErrInvalidPassword      = fmt.Errorf("invalid password")
	ErrInvalidCredentials   = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists    = fmt.Errorf("user already exists")
	ErrTokenGeneration      = fmt.Errorf("token generation failed")
	ErrAssistantUnavailable = fmt.Errorf("assistant is unavailable")
	ErrFileTooLarge         = fmt.Errorf("file exceeds maximum upload size")
)

// MapToGRPCError translates domain errors into gRPC status errors.
// Unknown errors are reported as Internal without leaking their message.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidPassword):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrFileTooLarge):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, ErrUserAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, ErrStatusConflict), errors.Is(err, ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrAssistantUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
