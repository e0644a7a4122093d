package usecase

import (
	"context"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"
)

// requireOwner verifies the context user matches the requested user (IDOR prevention).
func requireOwner(ctx context.Context, userID string, action string) error {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return apperror.Forbidden("You can only " + action)
	}
	return nil
}
