package http

import (
	"errors"
	"net/http"
	"strings"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/application/usecases/queries"
	"escrow/internal/generated/servers"
	"escrow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error codes carried in servers.Error.Code.
const (
	CodeInvalidRequest   = "invalid_request"
	CodeUnauthenticated  = "unauthenticated"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeAlreadyExists    = "already_exists"
	CodeInvalidState     = "invalid_state"
	CodeInternal         = "internal"
	bearerPrefix         = "bearer "
	internalErrorMessage = "Internal error"
)

var (
	errProofIsMissing = errors.New("authorization proof is missing")
	errInvalidBody    = errs.NewValueIsInvalidError("request body")
)

// bearerProof extracts the token of an "Authorization: Bearer <token>" header.
func bearerProof(ctx echo.Context) (string, error) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", errProofIsMissing
	}
	proof := strings.TrimSpace(header[len(bearerPrefix):])
	if proof == "" {
		return "", errProofIsMissing
	}
	return proof, nil
}

// classify maps an error kind to its HTTP status and code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errProofIsMissing):
		return http.StatusUnauthorized, CodeUnauthenticated
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden, CodeUnauthorized
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		return http.StatusConflict, CodeAlreadyExists
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusConflict, CodeInvalidState
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrCreateOrderCommandIsNotConstructed),
		errors.Is(err, commands.ErrPayOrderCommandIsNotConstructed),
		errors.Is(err, commands.ErrMarkReadyForPickupCommandIsNotConstructed),
		errors.Is(err, commands.ErrCompleteOrderCommandIsNotConstructed),
		errors.Is(err, commands.ErrCancelOrderCommandIsNotConstructed),
		errors.Is(err, queries.ErrGetOrderQueryIsNotConstructed),
		errors.Is(err, queries.ErrGetBuyerOrdersQueryIsNotConstructed),
		errors.Is(err, queries.ErrGetVendorOrdersQueryIsNotConstructed):
		return http.StatusBadRequest, CodeInvalidRequest
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func (s *Server) fail(ctx echo.Context, err error) error {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = internalErrorMessage
	}
	return ctx.JSON(status, servers.Error{Code: code, Message: message})
}

// HTTPErrorHandler renders errors that escape the handlers, such as unknown
// routes or malformed path parameters, in the servers.Error shape.
func HTTPErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := internalErrorMessage
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	code := CodeInternal
	switch status {
	case http.StatusNotFound:
		code = CodeNotFound
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnsupportedMediaType:
		code = CodeInvalidRequest
	}

	if ctx.Request().Method == http.MethodHead {
		_ = ctx.NoContent(status)
		return
	}
	_ = ctx.JSON(status, servers.Error{Code: code, Message: message})
}
