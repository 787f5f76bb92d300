package queries

import (
	"context"
)

// GetBuyerOrdersQueryHandler lists a buyer's orders. An unknown buyer yields
// an empty list.
type GetBuyerOrdersQueryHandler struct {
	reader OrderReader
}

func NewGetBuyerOrdersQueryHandler(reader OrderReader) GetBuyerOrdersQueryHandler {
	return GetBuyerOrdersQueryHandler{reader: reader}
}

func (h GetBuyerOrdersQueryHandler) Handle(ctx context.Context, query GetBuyerOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.FindByBuyer(ctx, query.Buyer())
	if err != nil {
		return nil, err
	}

	return newOrderResponses(orders), nil
}

// GetVendorOrdersQueryHandler lists a vendor's orders. An unknown vendor
// yields an empty list.
type GetVendorOrdersQueryHandler struct {
	reader OrderReader
}

func NewGetVendorOrdersQueryHandler(reader OrderReader) GetVendorOrdersQueryHandler {
	return GetVendorOrdersQueryHandler{reader: reader}
}

func (h GetVendorOrdersQueryHandler) Handle(ctx context.Context, query GetVendorOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.FindByVendor(ctx, query.Vendor())
	if err != nil {
		return nil, err
	}

	return newOrderResponses(orders), nil
}
