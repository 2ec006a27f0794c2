package watch

// Status represents the state of a download watch.
type Status string

const (
	// StatusPolling means the watch is still scanning the output directory.
	StatusPolling Status = "Polling"

	// StatusDone means a completed download was found.
	StatusDone Status = "Done"

	// StatusTimedOut means the time budget ran out with no completed download.
	StatusTimedOut Status = "TimedOut"
)

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// Terminal returns true once the watch has reached a final state.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusTimedOut
}
