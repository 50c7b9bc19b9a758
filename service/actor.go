package service

import (
	"context"
	"fmt"

	"rewards/models"
)

// ResolveActor asks the role collaborator once and freezes the answer into an
// Actor for the rest of the operation
func ResolveActor(ctx context.Context, checker RoleChecker, userID string) (models.Actor, error) {
	roles, err := checker.Roles(ctx, userID)
	if err != nil {
		return models.Actor{}, fmt.Errorf("failed to resolve roles for %s: %w", userID, err)
	}
	return models.Actor{UserID: userID, Roles: roles}, nil
}
