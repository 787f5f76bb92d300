package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	httpin "escrow/internal/adapters/in/http"
	"escrow/internal/adapters/out/auth"
	"escrow/internal/adapters/out/clock"
	"escrow/internal/adapters/out/memory"
	"escrow/internal/adapters/out/postgres"
	"escrow/internal/adapters/out/postgres/orderrepo"
	"escrow/internal/adapters/out/sink"
	"escrow/internal/adapters/out/transfer"
	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/application/usecases/queries"
	"escrow/internal/core/ports"
	"escrow/internal/jobs"
)

type CompositionRoot struct {
	configs Config
	logger  *slog.Logger

	uowFactory ports.UnitOfWorkFactory
	reader     queries.OrderReader
	signals    jobs.SignalSource

	authorizer ports.Authorizer
	clock      ports.Clock
	sink       ports.EventSink
	transfer   ports.FundsTransfer

	closers []func() error
}

// NewCompositionRoot opens the storage and the sinks selected by configs.
func NewCompositionRoot(configs Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		configs:  configs,
		logger:   logger,
		clock:    clock.NewSystem(),
		transfer: transfer.NewLedgerGateway(logger),
	}

	if err := c.openStorage(); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err := c.openSink(); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	c.authorizer = c.newAuthorizer()

	return c, nil
}

func (c *CompositionRoot) openStorage() error {
	switch c.configs.Storage {
	case StorageMemory:
		store := memory.NewStore()
		c.uowFactory = store
		c.reader = store.Reader()
		c.signals = store
		c.logger.Warn("Using in-memory storage, state is lost on restart")
		return nil

	case StoragePostgres:
		dsn := c.configs.Database().DSN()
		db, err := postgres.Open(dsn)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql db: %w", err)
		}
		c.closers = append(c.closers, sqlDB.Close)

		notifier, err := postgres.NewNotifier(dsn, c.logger)
		if err != nil {
			return err
		}

		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.reader = orderrepo.NewGormOrderRepository(db, nil)
		c.signals = notifier
		return nil

	default:
		return fmt.Errorf("unknown storage %q", c.configs.Storage)
	}
}

func (c *CompositionRoot) openSink() error {
	logSink := sink.NewLogSink(c.logger)
	if c.configs.JournalPath == "" {
		c.sink = logSink
		return nil
	}

	journal, err := sink.OpenJournal(c.configs.JournalPath)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, journal.Close)
	c.sink = sink.NewMultiSink(logSink, journal)
	return nil
}

func (c *CompositionRoot) newAuthorizer() ports.Authorizer {
	if c.configs.AuthMode == AuthModeInsecure {
		c.logger.Warn("Authorization is disabled, every proof is accepted")
		return auth.AllowAll{}
	}
	return auth.NewJWTAuthorizer(c.configs.AuthAudience, auth.WithLeeway(c.configs.AuthLeeway))
}

// Close releases the storage and the sinks.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.authorizer, c.clock)
}

func (c *CompositionRoot) CreatePayOrderCommandHandler() commands.PayOrderCommandHandler {
	return commands.NewPayOrderCommandHandler(c.orderUoWFactory(), c.authorizer, c.clock)
}

func (c *CompositionRoot) CreateMarkReadyForPickupCommandHandler() commands.MarkReadyForPickupCommandHandler {
	return commands.NewMarkReadyForPickupCommandHandler(c.orderUoWFactory(), c.authorizer, c.clock)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.orderUoWFactory(), c.authorizer, c.clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.authorizer, c.clock)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOutboxCommandHandler(f, c.sink, c.transfer)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateGetBuyerOrdersQueryHandler() queries.GetBuyerOrdersQueryHandler {
	return queries.NewGetBuyerOrdersQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateGetVendorOrdersQueryHandler() queries.GetVendorOrdersQueryHandler {
	return queries.NewGetVendorOrdersQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		PayOrder:           c.CreatePayOrderCommandHandler(),
		MarkReadyForPickup: c.CreateMarkReadyForPickupCommandHandler(),
		CompleteOrder:      c.CreateCompleteOrderCommandHandler(),
		CancelOrder:        c.CreateCancelOrderCommandHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		GetBuyerOrders:     c.CreateGetBuyerOrdersQueryHandler(),
		GetVendorOrders:    c.CreateGetVendorOrdersQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	relay := c.CreateRelayOutboxCommandHandler()
	return jobs.NewJobManager(&relay, c.configs.RelayBatchSize, c.signals, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
