package shapes

import "sync/atomic"

// Observer receives engine events. Implementations must be safe for
// concurrent use; they are called on the caller's goroutine.
type Observer interface {
	JoinPerformed(op Op)
	MergerSelected(kind MergerKind)
	ShapeOptimized()
	CollisionClamped(axis Axis)
}

type noopObserver struct{}

func (noopObserver) JoinPerformed(Op)          {}
func (noopObserver) MergerSelected(MergerKind) {}
func (noopObserver) ShapeOptimized()           {}
func (noopObserver) CollisionClamped(Axis)     {}

type observerBox struct {
	o Observer
}

var currentObserver atomic.Pointer[observerBox]

// SetObserver installs o for the whole process. nil restores the no-op
// observer.
func SetObserver(o Observer) {
	if o == nil {
		currentObserver.Store(nil)
		return
	}
	currentObserver.Store(&observerBox{o: o})
}

func observe() Observer {
	if b := currentObserver.Load(); b != nil {
		return b.o
	}
	return noopObserver{}
}
