package correction

import "context"

// CorrectionService governs the correction request lifecycle:
// pending -> approved or pending -> rejected, both terminal.
type CorrectionService interface {
	// Submit validates the target attendance record, snapshots its current
	// values, and files a pending request.
	Submit(ctx context.Context, req SubmitRequest) (CorrectionResponse, error)

	// Approve flips a pending request to approved and applies exactly the
	// fields implied by its request type onto the attendance record.
	Approve(ctx context.Context, req DecisionRequest) (CorrectionResponse, error)

	// Reject flips a pending request to rejected. The attendance record is
	// never touched.
	Reject(ctx context.Context, req DecisionRequest) (CorrectionResponse, error)

	Get(ctx context.Context, id string) (CorrectionResponse, error)
	List(ctx context.Context, filter CorrectionFilter) (ListCorrectionResponse, error)
}
