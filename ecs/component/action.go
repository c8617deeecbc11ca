package component

import "fmt"

type ActionKind uint8

const (
	ActionMove ActionKind = iota + 1
	ActionJump
	ActionJumpCut
	ActionWalk
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionJump:
		return "jump"
	case ActionJumpCut:
		return "jump_cut"
	case ActionWalk:
		return "walk"
	default:
		return fmt.Sprintf("action(%d)", uint8(k))
	}
}

// Action is one discrete player intent. Direction is only meaningful for
// ActionMove and On only for ActionWalk.
type Action struct {
	Kind      ActionKind
	Direction float64
	On        bool
}

func Move(direction float64) Action { return Action{Kind: ActionMove, Direction: direction} }
func Jump() Action                  { return Action{Kind: ActionJump} }
func JumpCut() Action               { return Action{Kind: ActionJumpCut} }
func Walk(on bool) Action           { return Action{Kind: ActionWalk, On: on} }

// ActionQueueCapacity bounds the number of actions buffered between ticks.
const ActionQueueCapacity = 64

// ActionQueue is a bounded FIFO written by the input sampler and drained by
// the movement integrator. When full, the oldest action is overwritten.
type ActionQueue struct {
	buf     [ActionQueueCapacity]Action
	head    int
	size    int
	Dropped int
}

var ActionQueueComponent = NewComponent[ActionQueue]()

// Push appends a in generation order.
func (q *ActionQueue) Push(a Action) {
	if q == nil {
		return
	}
	if q.size == len(q.buf) {
		q.head = (q.head + 1) % len(q.buf)
		q.size--
		q.Dropped++
	}
	q.buf[(q.head+q.size)%len(q.buf)] = a
	q.size++
}

// Len returns the number of pending actions.
func (q *ActionQueue) Len() int {
	if q == nil {
		return 0
	}
	return q.size
}

// Drain calls fn for every pending action in order and empties the queue.
func (q *ActionQueue) Drain(fn func(Action)) {
	if q == nil {
		return
	}
	for q.size > 0 {
		a := q.buf[q.head]
		q.head = (q.head + 1) % len(q.buf)
		q.size--
		if fn != nil {
			fn(a)
		}
	}
	q.head = 0
}

// Clear discards pending actions.
func (q *ActionQueue) Clear() {
	q.Drain(nil)
}
