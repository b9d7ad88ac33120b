package model

// AttemptOutcome represents how a single provider attempt ended
type AttemptOutcome string

const (
	// AttemptSucceeded means the provider left a valid file at the output path
	AttemptSucceeded AttemptOutcome = "Succeeded"

	// AttemptFailed means the provider ran and did not produce a valid file
	AttemptFailed AttemptOutcome = "Failed"

	// AttemptUnavailable means the provider could not be used for this request
	// (disabled or not applicable); it is not counted as a fault
	AttemptUnavailable AttemptOutcome = "Unavailable"
)

// String returns the string representation of AttemptOutcome
func (ao AttemptOutcome) String() string {
	return string(ao)
}

// IsSuccess returns true if the attempt produced a valid output file
func (ao AttemptOutcome) IsSuccess() bool {
	return ao == AttemptSucceeded
}

// ProbeOutcome represents whether the resolution probe could read a height
type ProbeOutcome string

const (
	// ProbeOK means the probe returned a usable pixel height
	ProbeOK ProbeOutcome = "Probed"

	// ProbeFailed means the probe errored, exited non-zero or returned garbage
	ProbeFailed ProbeOutcome = "ProbeFailed"
)

// String returns the string representation of ProbeOutcome
func (po ProbeOutcome) String() string {
	return string(po)
}
