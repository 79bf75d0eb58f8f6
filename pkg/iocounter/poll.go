package iocounter

// Poll is the readiness of a non-blocking operation.
type Poll uint8

const (
	// Pending means the sink could not make progress yet. It has retained the
	// Waker and will call Wake once the operation should be polled again.
	Pending Poll = iota
	// Ready means the operation completed, successfully or not.
	Ready
)

func (p Poll) String() string {
	switch p {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Waker is handed to a polling sink so it can signal when a pending
// operation may make progress.
type Waker interface {
	Wake()
}

// WakerFunc adapts an ordinary function to the Waker interface.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }
