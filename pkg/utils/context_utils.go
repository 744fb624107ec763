package utils

import (
	"context"

	"repair-office/pkg/contextkeys"
	apperrors "repair-office/pkg/errors"
)

// GetMemberIDFromCtx returns the member set by the auth middleware.
func GetMemberIDFromCtx(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(contextkeys.MemberIDKey).(int64)
	if !ok || id == 0 {
		return 0, apperrors.ErrMemberIDNotFoundInContext
	}
	return id, nil
}
