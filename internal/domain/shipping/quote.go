package shipping

// QuoteState models the rate-selection step of a checkout session as an
// explicit state machine rather than independent boolean flags, so invalid
// combinations (loading and errored at once) cannot be represented.
type QuoteState string

const (
	// QuoteStateIdle means no destination address is set yet
	QuoteStateIdle QuoteState = "idle"
	// QuoteStateLoading means a rate lookup is in flight
	QuoteStateLoading QuoteState = "loading"
	// QuoteStateLoaded means options are available (none or one selected)
	QuoteStateLoaded QuoteState = "loaded"
	// QuoteStateError means the lookup failed or returned zero options
	QuoteStateError QuoteState = "error"
)

// IsValid checks if the state is a known QuoteState
func (s QuoteState) IsValid() bool {
	switch s {
	case QuoteStateIdle, QuoteStateLoading, QuoteStateLoaded, QuoteStateError:
		return true
	}
	return false
}

// String returns the string representation of QuoteState
func (s QuoteState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state.
// There is no terminal state: the step stays revisitable for as long as the
// checkout session is open. Loaded -> Loaded covers option selection, which
// is a sub-state change that does not re-fetch. Error -> Loading is the
// user-initiated retry; there is no automatic retry.
func (s QuoteState) CanTransitionTo(target QuoteState) bool {
	switch s {
	case QuoteStateIdle:
		return target == QuoteStateLoading
	case QuoteStateLoading:
		return target == QuoteStateLoaded || target == QuoteStateError
	case QuoteStateLoaded:
		return target == QuoteStateLoaded || target == QuoteStateLoading
	case QuoteStateError:
		return target == QuoteStateLoading
	}
	return false
}
