package stream

const badQueueDepth = "stream: queue depth must be at least 1"

// Queue is a bounded first-in first-out buffer of stream units.
// It expects at most one pushing and one popping party; the fill level
// may be read at any time.
type Queue struct {
	buf  []Unit
	head int
	tail int
	n    int
}

// NewQueue returns an empty queue holding up to depth units.
func NewQueue(depth int) *Queue {
	if depth < 1 {
		panic(badQueueDepth)
	}
	return &Queue{buf: make([]Unit, depth)}
}

// Push appends u and reports whether there was room for it.
// A full queue leaves u untouched.
func (q *Queue) Push(u Unit) bool {
	if q.n == len(q.buf) {
		return false
	}
	q.buf[q.tail] = u
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.n++
	return true
}

// Pop removes and returns the oldest unit. ok is false when the queue
// is empty.
func (q *Queue) Pop() (u Unit, ok bool) {
	if q.n == 0 {
		return Unit{}, false
	}
	u = q.buf[q.head]
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.n--
	return u, true
}

// Peek returns the oldest unit without removing it.
func (q *Queue) Peek() (u Unit, ok bool) {
	if q.n == 0 {
		return Unit{}, false
	}
	return q.buf[q.head], true
}

// Level returns the number of buffered units.
func (q *Queue) Level() int { return q.n }

// Depth returns the queue capacity.
func (q *Queue) Depth() int { return len(q.buf) }

// Full reports whether a push would be refused.
func (q *Queue) Full() bool { return q.n == len(q.buf) }
