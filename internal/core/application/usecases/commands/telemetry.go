package commands

import (
	"context"
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("escrow/commands")

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// authorize runs the proof check and reports any failure as Unauthorized.
func authorize(ctx context.Context, authorizer ports.Authorizer, identity kernel.Principal, proof string) error {
	err := authorizer.Authorize(ctx, identity, proof)
	if err == nil {
		return nil
	}
	if errors.Is(err, errs.ErrUnauthorized) {
		return err
	}
	return errs.NewUnauthorizedErrorWithCause("proof", err)
}
