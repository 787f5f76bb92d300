// Package memory is an in-process Order Store with the same unit of work
// semantics as the postgres adapter. It backs tests and single-node
// development runs (ESCROW_STORAGE=memory); nothing survives a restart.
//
// Units of work are serialized: Begin takes the store-wide write lock and
// holds it until Commit or Rollback. Writes go to a private copy of the data
// that Commit swaps in, so readers outside the unit of work never observe a
// partial transition.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/outbox"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

// ErrNoTransaction is returned by Commit and Rollback without a prior Begin,
// and by writes made outside a unit of work.
var ErrNoTransaction = errors.New("no active transaction")

// orderRecord is the stored form of an order. Aggregates are rebuilt from it
// on every read so callers never share state with the store.
type orderRecord struct {
	id        kernel.OrderID
	buyer     kernel.Principal
	vendor    kernel.Principal
	amount    kernel.Amount
	status    order.Status
	createdAt uint64
	updatedAt uint64
}

type messageRecord struct {
	id            kernel.UUID
	orderID       kernel.OrderID
	topic         order.Topic
	payload       []byte
	occurredAt    uint64
	status        outbox.Status
	attemptCount  int
	lastError     string
	nextAttemptAt time.Time
	sequence      int64
}

type snapshot struct {
	orders   map[kernel.OrderID]orderRecord
	messages []messageRecord
	sequence int64
}

func (s snapshot) clone() snapshot {
	orders := make(map[kernel.OrderID]orderRecord, len(s.orders))
	for id, r := range s.orders {
		orders[id] = r
	}
	return snapshot{
		orders:   orders,
		messages: append([]messageRecord(nil), s.messages...),
		sequence: s.sequence,
	}
}

// Store holds committed state.
type Store struct {
	txMu sync.Mutex

	mu      sync.RWMutex
	data    snapshot
	signals chan struct{}
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		data:    snapshot{orders: make(map[kernel.OrderID]orderRecord)},
		signals: make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Signals fires after a commit that appended outbox messages. Signals are
// coalesced.
func (s *Store) Signals() <-chan struct{} {
	return s.signals
}

// Create returns a new unit of work over the store.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

// Reader returns a read-only view of committed orders.
func (s *Store) Reader() *OrderRepository {
	return &OrderRepository{store: s}
}

func (s *Store) read() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Store) notify() {
	select {
	case s.signals <- struct{}{}:
	default:
	}
}

// UnitOfWork implements ports.UnitOfWork over a Store.
type UnitOfWork struct {
	store   *Store
	working *snapshot
	tracked []*order.Order
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.working != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.txMu.Lock()
	working := u.store.read().clone()
	u.working = &working
	return nil
}

// Commit appends the events of tracked orders to the outbox and publishes the
// working copy.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.working == nil {
		return ErrNoTransaction
	}
	defer u.end()

	now := u.store.now()
	written := 0
	for _, aggregate := range u.tracked {
		for _, event := range aggregate.DomainEvents() {
			m, err := outbox.NewMessage(event, now)
			if err != nil {
				return err
			}
			u.working.appendMessage(m)
			written++
		}
	}

	u.store.mu.Lock()
	u.store.data = *u.working
	u.store.mu.Unlock()

	for _, aggregate := range u.tracked {
		aggregate.ClearDomainEvents()
	}
	if written > 0 {
		u.store.notify()
	}
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.working == nil {
		return ErrNoTransaction
	}
	u.end()
	return nil
}

func (u *UnitOfWork) end() {
	u.working = nil
	u.tracked = u.tracked[:0]
	u.store.txMu.Unlock()
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{store: u.store, uow: u}
}

func (u *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return &OutboxRepository{store: u.store, uow: u}
}

func (u *UnitOfWork) track(aggregate *order.Order) {
	for _, tracked := range u.tracked {
		if tracked == aggregate {
			return
		}
	}
	u.tracked = append(u.tracked, aggregate)
}

// view returns the working copy inside a unit of work and the committed
// state otherwise.
func view(store *Store, uow *UnitOfWork) snapshot {
	if uow != nil && uow.working != nil {
		return *uow.working
	}
	return store.read()
}

func (s *snapshot) appendMessage(m *outbox.Message) {
	s.sequence++
	m.AssignSequence(s.sequence)
	s.messages = append(s.messages, toMessageRecord(m))
}

func toOrderRecord(o *order.Order) orderRecord {
	return orderRecord{
		id:        o.ID(),
		buyer:     o.Buyer(),
		vendor:    o.Vendor(),
		amount:    o.Amount(),
		status:    o.Status(),
		createdAt: o.CreatedAt(),
		updatedAt: o.UpdatedAt(),
	}
}

func (r orderRecord) restore() (*order.Order, error) {
	return order.RestoreOrder(r.id, r.buyer, r.vendor, r.amount, r.status, r.createdAt, r.updatedAt)
}

func toMessageRecord(m *outbox.Message) messageRecord {
	return messageRecord{
		id:            m.ID(),
		orderID:       m.OrderID(),
		topic:         m.Topic(),
		payload:       m.Payload(),
		occurredAt:    m.OccurredAt(),
		status:        m.Status(),
		attemptCount:  m.AttemptCount(),
		lastError:     m.LastError(),
		nextAttemptAt: m.NextAttemptAt(),
		sequence:      m.Sequence(),
	}
}

func (r messageRecord) restore() (*outbox.Message, error) {
	return outbox.RestoreMessage(
		r.id, r.orderID, r.topic, r.payload, r.occurredAt,
		r.status, r.attemptCount, r.lastError, r.nextAttemptAt, r.sequence,
	)
}

// OrderRepository implements ports.OrderRepository. Outside a unit of work it
// only supports reads.
type OrderRepository struct {
	store *Store
	uow   *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if r.uow == nil || r.uow.working == nil {
		return ErrNoTransaction
	}

	if _, ok := r.uow.working.orders[aggregate.ID()]; ok {
		return errs.NewObjectAlreadyExistsError("order", aggregate.ID().String())
	}
	r.uow.working.orders[aggregate.ID()] = toOrderRecord(aggregate)
	r.uow.track(aggregate)
	return nil
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if r.uow == nil || r.uow.working == nil {
		return ErrNoTransaction
	}

	if _, ok := r.uow.working.orders[aggregate.ID()]; !ok {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	r.uow.working.orders[aggregate.ID()] = toOrderRecord(aggregate)
	r.uow.track(aggregate)
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id kernel.OrderID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	record, ok := view(r.store, r.uow).orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return record.restore()
}

func (r *OrderRepository) Scan(_ context.Context) ([]*order.Order, error) {
	return r.filter(func(orderRecord) bool { return true })
}

func (r *OrderRepository) FindByBuyer(_ context.Context, buyer kernel.Principal) ([]*order.Order, error) {
	if err := buyer.Validate(); err != nil {
		return nil, err
	}
	return r.filter(func(rec orderRecord) bool { return rec.buyer.IsEqual(buyer) })
}

func (r *OrderRepository) FindByVendor(_ context.Context, vendor kernel.Principal) ([]*order.Order, error) {
	if err := vendor.Validate(); err != nil {
		return nil, err
	}
	return r.filter(func(rec orderRecord) bool { return rec.vendor.IsEqual(vendor) })
}

func (r *OrderRepository) filter(keep func(orderRecord) bool) ([]*order.Order, error) {
	data := view(r.store, r.uow)

	records := make([]orderRecord, 0)
	for _, rec := range data.orders {
		if keep(rec) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].id.Compare(records[j].id) < 0
	})

	orders := make([]*order.Order, 0, len(records))
	for _, rec := range records {
		o, err := rec.restore()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// OutboxRepository implements ports.OutboxRepository.
type OutboxRepository struct {
	store *Store
	uow   *UnitOfWork
}

func (r *OutboxRepository) Add(_ context.Context, message *outbox.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	if r.uow == nil || r.uow.working == nil {
		return ErrNoTransaction
	}
	r.uow.working.appendMessage(message)
	return nil
}

func (r *OutboxRepository) Update(_ context.Context, message *outbox.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	if r.uow == nil || r.uow.working == nil {
		return ErrNoTransaction
	}

	for i, rec := range r.uow.working.messages {
		if rec.id.IsEqual(message.ID()) {
			r.uow.working.messages[i] = toMessageRecord(message)
			return nil
		}
	}
	return errs.NewObjectNotFoundError("outbox message", message.ID().String())
}

func (r *OutboxRepository) GetPending(_ context.Context, limit int) ([]*outbox.Message, error) {
	messages := make([]*outbox.Message, 0)
	for _, rec := range view(r.store, r.uow).messages {
		if len(messages) >= limit {
			break
		}
		if rec.status != outbox.Pending {
			continue
		}
		m, err := rec.restore()
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}
