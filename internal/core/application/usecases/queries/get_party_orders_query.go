package queries

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrGetBuyerOrdersQueryIsNotConstructed = errors.New(
		"GetBuyerOrdersQuery must be created via NewGetBuyerOrdersQuery constructor",
	)
	ErrGetVendorOrdersQueryIsNotConstructed = errors.New(
		"GetVendorOrdersQuery must be created via NewGetVendorOrdersQuery constructor",
	)
)

// GetBuyerOrdersQuery lists every order placed by one buyer, in id order.
type GetBuyerOrdersQuery struct {
	buyer kernel.Principal
	guard guard.ConstructorGuard
}

func NewGetBuyerOrdersQuery(buyer kernel.Principal) (GetBuyerOrdersQuery, error) {
	if err := buyer.Validate(); err != nil {
		return GetBuyerOrdersQuery{}, err
	}
	return GetBuyerOrdersQuery{buyer: buyer, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBuyerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetBuyerOrdersQueryIsNotConstructed)
}

func (q GetBuyerOrdersQuery) Buyer() kernel.Principal {
	return q.buyer
}

// GetVendorOrdersQuery lists every order sold by one vendor, in id order.
type GetVendorOrdersQuery struct {
	vendor kernel.Principal
	guard  guard.ConstructorGuard
}

func NewGetVendorOrdersQuery(vendor kernel.Principal) (GetVendorOrdersQuery, error) {
	if err := vendor.Validate(); err != nil {
		return GetVendorOrdersQuery{}, err
	}
	return GetVendorOrdersQuery{vendor: vendor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetVendorOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetVendorOrdersQueryIsNotConstructed)
}

func (q GetVendorOrdersQuery) Vendor() kernel.Principal {
	return q.vendor
}
