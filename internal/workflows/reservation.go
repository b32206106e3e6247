package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ReservationInput is the input for the reservation workflow.
type ReservationInput struct {
	CustomerID string
	BagID      string
	Quantity   int
}

// ReservationWorkflow orchestrates claiming a bag, notifying the customer,
// and announcing the reservation. If the push notification fails, the
// reservation is cancelled and its quantity released (saga compensation).
func ReservationWorkflow(ctx workflow.Context, input ReservationInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting reservation workflow", "bagID", input.BagID, "quantity", input.Quantity)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Claim quantity and get a pickup code
	var code string
	err := workflow.ExecuteActivity(ctx, "ClaimBag", input.CustomerID, input.BagID, input.Quantity).Get(ctx, &code)
	if err != nil {
		return err
	}

	// Step 2: Send the pickup code to the customer
	err = workflow.ExecuteActivity(ctx, "SendPickupCode", input.CustomerID, input.BagID, code).Get(ctx, nil)
	if err != nil {
		logger.Warn("push notification failed, compensating", "error", err)
		// Compensate: release the claim
		_ = workflow.ExecuteActivity(ctx, "ReleaseClaim", code).Get(ctx, nil)
		return err
	}

	// Step 3: Announce the reservation (best-effort)
	_ = workflow.ExecuteActivity(ctx, "AnnounceReservation", code).Get(ctx, nil)

	logger.Info("Reservation confirmed", "code", code)
	return nil
}
