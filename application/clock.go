package application

import "context"

// Clock is the ~10 Hz tick loop of spec.md §4.7: it advances model time,
// drains due packets into the ModelUpdater, and requests cache flushes.
type Clock interface {
	// Run blocks ticking until ctx is cancelled or a fatal error occurs.
	Run(ctx context.Context) error

	// SetPaused freezes/resumes model_time advancement; resuming folds
	// the frozen interval into time_gap (spec.md §4.7 step 3).
	SetPaused(paused bool)

	// AdjustGap adds delta seconds to the user-controlled time_gap.
	AdjustGap(delta int64)
}
