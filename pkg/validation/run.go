package validation

import (
	"context"

	"github.com/google/uuid"
	"github.com/lnp-bp/rgb-validation-core/pkg/consignment"
)

// Run tags one Validate invocation with a correlation id, for joining a
// service's validation-run logs and metrics back to a single request.
type Run struct {
	ID       uuid.UUID
	Validity Validity
	Status   Status
}

// RunValidation executes Validate and wraps its result in a Run carrying
// a fresh correlation id.
func RunValidation(ctx context.Context, v *Validator, api consignment.Api) Run {
	validity, status := v.Validate(ctx, api)
	return Run{ID: uuid.New(), Validity: validity, Status: status}
}
