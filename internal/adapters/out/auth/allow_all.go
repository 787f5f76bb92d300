package auth

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

// AllowAll accepts any proof for any well-formed identity. Local development only.
type AllowAll struct{}

func (AllowAll) Authorize(_ context.Context, identity kernel.Principal, _ string) error {
	if err := identity.Validate(); err != nil {
		return errs.NewUnauthorizedErrorWithCause("identity", err)
	}
	return nil
}
