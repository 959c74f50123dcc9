package freebox

// Observer is notified of the client's traffic. It lets callers count
// requests without the library depending on a metrics backend.
type Observer interface {
	// RequestDone is called once per public API call, after any retry.
	RequestDone(method string, err error)
	// SessionOpened is called after each login attempt.
	SessionOpened(err error)
	// Retried is called when a request is replayed with a fresh session.
	Retried()
}

type nopObserver struct{}

func (nopObserver) RequestDone(string, error) {}
func (nopObserver) SessionOpened(error)       {}
func (nopObserver) Retried()                  {}
