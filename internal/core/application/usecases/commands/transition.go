package commands

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"
)

// transitionHandler holds the collaborators shared by the four order
// transitions.
type transitionHandler struct {
	uowFactory OrderUoWFactory
	authorizer ports.Authorizer
	clock      ports.Clock
}

// run authorizes principal, then loads, mutates and stores the order within
// one unit of work. Nothing is written unless every step succeeds.
func (h transitionHandler) run(
	ctx context.Context,
	id kernel.OrderID,
	principal kernel.Principal,
	proof string,
	mutate func(o *order.Order, now uint64) error,
) (*order.Order, error) {
	if err := authorize(ctx, h.authorizer, principal, proof); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = mutate(o, h.clock.Now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
