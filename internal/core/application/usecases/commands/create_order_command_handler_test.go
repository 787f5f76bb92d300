package commands_test

import (
	"errors"
	"testing"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateOrderCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewRandomOrderID(),
		newPrincipal(t, "buyer"),
		newPrincipal(t, "vendor"),
		kernel.AmountFromInt64(1000),
		"buyer-proof",
	)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	auth := new(MockAuthorizer)
	auth.On("Authorize", mock.Anything, cmd.Buyer(), "buyer-proof").Return(nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, auth, fixedClock(1))
	created, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Created, created.Status())
	assert.Equal(t, uint64(1), created.CreatedAt())
	assert.True(t, cmd.OrderID().IsEqual(created.ID()))
	require.Len(t, created.DomainEvents(), 1)
	assert.Equal(t, order.TopicOrderCreated, created.DomainEvents()[0].Topic())

	auth.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly
	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, new(MockAuthorizer), fixedClock(1))
	created, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	assert.Nil(t, created)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_Unauthorized(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	t.Run("should keep unauthorized errors as they are", func(t *testing.T) {
		auth := new(MockAuthorizer)
		auth.On("Authorize", mock.Anything, cmd.Buyer(), "buyer-proof").
			Return(errs.NewUnauthorizedError("proof")).Once()
		factory := new(MockOrderUoWFactory)

		h := commands.NewCreateOrderCommandHandler(factory, auth, fixedClock(1))
		created, err := h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
		assert.Nil(t, created)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("should report other authorizer failures as unauthorized", func(t *testing.T) {
		cause := errors.New("key lookup failed")
		auth := new(MockAuthorizer)
		auth.On("Authorize", mock.Anything, cmd.Buyer(), "buyer-proof").Return(cause).Once()
		factory := new(MockOrderUoWFactory)

		h := commands.NewCreateOrderCommandHandler(factory, auth, fixedClock(1))
		_, err := h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
		var unauthorized *errs.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
		assert.Equal(t, cause, unauthorized.Cause)
		factory.AssertNotCalled(t, "Create")
	})
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	auth := new(MockAuthorizer)
	auth.On("Authorize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", mock.Anything).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, auth, fixedClock(1))
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_AlreadyExists(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	auth := new(MockAuthorizer)
	auth.On("Authorize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
			Return(errs.NewObjectAlreadyExistsError("order", cmd.OrderID())).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, auth, fixedClock(1))
	created, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	assert.Nil(t, created)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	auth := new(MockAuthorizer)
	auth.On("Authorize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, auth, fixedClock(1))
	created, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.Nil(t, created)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}
