package http

import (
	"log/slog"
	"net/http"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/application/usecases/queries"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler        commands.CreateOrderCommandHandler
	payOrderHandler           commands.PayOrderCommandHandler
	markReadyForPickupHandler commands.MarkReadyForPickupCommandHandler
	completeOrderHandler      commands.CompleteOrderCommandHandler
	cancelOrderHandler        commands.CancelOrderCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	getBuyerOrdersHandler  queries.GetBuyerOrdersQueryHandler
	getVendorOrdersHandler queries.GetVendorOrdersQueryHandler

	logger *slog.Logger
}

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder        commands.CreateOrderCommandHandler
	PayOrder           commands.PayOrderCommandHandler
	MarkReadyForPickup commands.MarkReadyForPickupCommandHandler
	CompleteOrder      commands.CompleteOrderCommandHandler
	CancelOrder        commands.CancelOrderCommandHandler

	GetOrder        queries.GetOrderQueryHandler
	GetBuyerOrders  queries.GetBuyerOrdersQueryHandler
	GetVendorOrders queries.GetVendorOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{
		createOrderHandler:        h.CreateOrder,
		payOrderHandler:           h.PayOrder,
		markReadyForPickupHandler: h.MarkReadyForPickup,
		completeOrderHandler:      h.CompleteOrder,
		cancelOrderHandler:        h.CancelOrder,
		getOrderHandler:           h.GetOrder,
		getBuyerOrdersHandler:     h.GetBuyerOrders,
		getVendorOrdersHandler:    h.GetVendorOrders,
		logger:                    logger.With("component", "HTTPServer"),
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	proof, err := bearerProof(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.CreateOrderJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return s.fail(ctx, errInvalidBody)
	}

	id, err := kernel.OrderIDFromHex(body.Id)
	if err != nil {
		return s.fail(ctx, err)
	}
	buyer, err := kernel.NewPrincipal(body.Buyer)
	if err != nil {
		return s.fail(ctx, err)
	}
	vendor, err := kernel.NewPrincipal(body.Vendor)
	if err != nil {
		return s.fail(ctx, err)
	}
	amount, err := kernel.AmountFromString(body.Amount)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(id, buyer, vendor, amount, proof)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrder(created))
}

// PayOrder handles POST /api/v1/orders/{orderId}/pay.
func (s *Server) PayOrder(ctx echo.Context, orderID servers.OrderId) error {
	var body servers.PayOrderJSONRequestBody
	id, buyer, proof, err := s.parseAction(ctx, orderID, &body, func() string { return body.Buyer })
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewPayOrderCommand(id, buyer, proof)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx)(s.payOrderHandler.Handle(ctx.Request().Context(), cmd))
}

// MarkReadyForPickup handles POST /api/v1/orders/{orderId}/ready.
func (s *Server) MarkReadyForPickup(ctx echo.Context, orderID servers.OrderId) error {
	var body servers.MarkReadyForPickupJSONRequestBody
	id, vendor, proof, err := s.parseAction(ctx, orderID, &body, func() string { return body.Vendor })
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewMarkReadyForPickupCommand(id, vendor, proof)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx)(s.markReadyForPickupHandler.Handle(ctx.Request().Context(), cmd))
}

// CompleteOrder handles POST /api/v1/orders/{orderId}/complete.
func (s *Server) CompleteOrder(ctx echo.Context, orderID servers.OrderId) error {
	var body servers.CompleteOrderJSONRequestBody
	id, buyer, proof, err := s.parseAction(ctx, orderID, &body, func() string { return body.Buyer })
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCompleteOrderCommand(id, buyer, proof)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx)(s.completeOrderHandler.Handle(ctx.Request().Context(), cmd))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderID servers.OrderId) error {
	var body servers.CancelOrderJSONRequestBody
	id, caller, proof, err := s.parseAction(ctx, orderID, &body, func() string { return body.Caller })
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(id, caller, proof)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respond(ctx)(s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID servers.OrderId) error {
	id, err := kernel.OrderIDFromHex(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	found, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromResponse(found))
}

// GetBuyerOrders handles GET /api/v1/buyers/{principal}/orders.
func (s *Server) GetBuyerOrders(ctx echo.Context, principal servers.Principal) error {
	buyer, err := kernel.NewPrincipal(principal)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetBuyerOrdersQuery(buyer)
	if err != nil {
		return s.fail(ctx, err)
	}

	found, err := s.getBuyerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromResponses(found))
}

// GetVendorOrders handles GET /api/v1/vendors/{principal}/orders.
func (s *Server) GetVendorOrders(ctx echo.Context, principal servers.Principal) error {
	vendor, err := kernel.NewPrincipal(principal)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetVendorOrdersQuery(vendor)
	if err != nil {
		return s.fail(ctx, err)
	}

	found, err := s.getVendorOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromResponses(found))
}

// parseAction reads the proof, the path id and the acting principal that
// principal extracts from the bound body.
func (s *Server) parseAction(
	ctx echo.Context,
	orderID string,
	body any,
	principal func() string,
) (kernel.OrderID, kernel.Principal, string, error) {
	proof, err := bearerProof(ctx)
	if err != nil {
		return kernel.OrderID{}, kernel.Principal{}, "", err
	}
	if err = ctx.Bind(body); err != nil {
		return kernel.OrderID{}, kernel.Principal{}, "", errInvalidBody
	}
	id, err := kernel.OrderIDFromHex(orderID)
	if err != nil {
		return kernel.OrderID{}, kernel.Principal{}, "", err
	}
	p, err := kernel.NewPrincipal(principal())
	if err != nil {
		return kernel.OrderID{}, kernel.Principal{}, "", err
	}
	return id, p, proof, nil
}

func (s *Server) respond(ctx echo.Context) func(*order.Order, error) error {
	return func(o *order.Order, err error) error {
		if err != nil {
			return s.fail(ctx, err)
		}
		return ctx.JSON(http.StatusOK, toOrder(o))
	}
}

func toOrder(o *order.Order) servers.Order {
	return servers.Order{
		Id:        o.ID().String(),
		Buyer:     o.Buyer().String(),
		Vendor:    o.Vendor().String(),
		Amount:    o.Amount().String(),
		Status:    servers.Status(o.Status().String()),
		CreatedAt: toUnix(o.CreatedAt()),
		UpdatedAt: toUnix(o.UpdatedAt()),
	}
}

func fromResponse(r queries.OrderResponse) servers.Order {
	return servers.Order{
		Id:        r.ID.String(),
		Buyer:     r.Buyer.String(),
		Vendor:    r.Vendor.String(),
		Amount:    r.Amount.String(),
		Status:    servers.Status(r.Status.String()),
		CreatedAt: toUnix(r.CreatedAt),
		UpdatedAt: toUnix(r.UpdatedAt),
	}
}

func fromResponses(rs []queries.OrderResponse) []servers.Order {
	out := make([]servers.Order, len(rs))
	for i, r := range rs {
		out[i] = fromResponse(r)
	}
	return out
}

func toUnix(t uint64) int64 {
	//nolint:gosec // logical timestamps are unix seconds
	return int64(t)
}
