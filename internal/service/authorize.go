package service

import (
	"context"
	"fmt"

	"github.com/trisuaso/beambin/internal/model"
	"github.com/trisuaso/beambin/pkg/utils"
)

// authorize decides whether a mutation on existing may proceed. With a
// delegated actor present the edit password is never consulted: the actor's
// group must hold the Manager permission and the action must land in the
// audit trail before access is granted. Without an actor the supplied
// password's hash must match the stored hash.
func (s *postService) authorize(ctx context.Context, existing *model.Post, password string, actor *model.Profile, action string) error {
	if actor != nil {
		group, err := s.identity.GroupByID(ctx, actor.Group)
		if err != nil {
			s.logger.Sugar().Errorf("failed to get group(%d) for profile(%s): %s", actor.Group, actor.ID, err.Error())
			return ErrOther
		}

		if !group.Has(model.PermissionManager) {
			return ErrNotAllowed
		}

		// an action that cannot be attributed does not happen
		if err := s.identity.Audit(ctx, actor.ID, fmt.Sprintf("%s: %s", action, existing.Slug)); err != nil {
			s.logger.Sugar().Errorf("failed to audit action by profile(%s): %s", actor.ID, err.Error())
			return ErrOther
		}

		return nil
	}

	if utils.Hash(password) != existing.Password {
		return ErrPasswordIncorrect
	}

	return nil
}
