// Package orderrepo persists Order aggregates in the orders table.
package orderrepo

import (
	"math"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// OrderDTO is one row of the orders table. Buyer and vendor are plain
// columns: listing by party is a filtered scan.
type OrderDTO struct {
	ID        []byte          `gorm:"type:bytea;primaryKey"`
	Buyer     string          `gorm:"type:text;not null"`
	Vendor    string          `gorm:"type:text;not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(39,0);not null"`
	Status    int             `gorm:"not null"`
	CreatedAt int64           `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64           `gorm:"not null;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) (OrderDTO, error) {
	createdAt, err := toColumn("created_at", o.CreatedAt())
	if err != nil {
		return OrderDTO{}, err
	}
	updatedAt, err := toColumn("updated_at", o.UpdatedAt())
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:        o.ID().Bytes(),
		Buyer:     o.Buyer().String(),
		Vendor:    o.Vendor().String(),
		Amount:    decimal.NewFromBigInt(o.Amount().BigInt(), 0),
		Status:    int(o.Status()),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.OrderIDFromBytes(dto.ID)
	if err != nil {
		return nil, err
	}
	buyer, err := kernel.NewPrincipal(dto.Buyer)
	if err != nil {
		return nil, err
	}
	vendor, err := kernel.NewPrincipal(dto.Vendor)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewAmount(dto.Amount.BigInt())
	if err != nil {
		return nil, err
	}
	if dto.CreatedAt < 0 || dto.UpdatedAt < 0 {
		return nil, errs.NewValueIsOutOfRangeError("timestamp", dto.CreatedAt, 0, int64(math.MaxInt64))
	}

	return order.RestoreOrder(
		id, buyer, vendor, amount,
		order.Status(dto.Status),
		uint64(dto.CreatedAt),
		uint64(dto.UpdatedAt),
	)
}

// toColumn converts a logical timestamp to the bigint column. Values the
// column cannot hold are rejected.
func toColumn(name string, ts uint64) (int64, error) {
	if ts > math.MaxInt64 {
		return 0, errs.NewValueIsOutOfRangeError(name, ts, uint64(0), uint64(math.MaxInt64))
	}
	return int64(ts), nil
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
