package pipeline

import "errors"

var (
	// ErrTerminalState is returned for any stage or status operation on a
	// withdrawn application. Withdrawal is one-way.
	ErrTerminalState = errors.New("application is withdrawn and accepts no further transitions")

	// ErrInvalidStage is returned when the target stage is not assigned to
	// the application's job.
	ErrInvalidStage = errors.New("stage is not assigned to the application's job")

	// ErrInvalidStatus is returned for a status outside the closed set.
	ErrInvalidStatus = errors.New("unknown application status")

	// ErrDuplicateApplication is returned when the candidate already applied
	// to the job.
	ErrDuplicateApplication = errors.New("candidate has already applied to this job")

	// ErrJobNotOpen is returned when applying to a job that is not active.
	ErrJobNotOpen = errors.New("job is not accepting applications")
)
