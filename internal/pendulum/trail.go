package pendulum

// Trail is the history of bob positions, newest first. With a zero limit it
// grows without bound; otherwise it keeps the newest limit positions in a
// ring and drops the oldest.
type Trail struct {
	points []Point
	start  int
	limit  int
}

func NewTrail(limit int) *Trail {
	if limit < 0 {
		limit = 0
	}
	t := &Trail{limit: limit}
	if limit > 0 {
		t.points = make([]Point, 0, limit)
	}
	return t
}

// Push records p as the newest position.
func (t *Trail) Push(p Point) {
	if t.limit == 0 || len(t.points) < t.limit {
		t.points = append(t.points, p)
		return
	}
	t.points[t.start] = p
	t.start = (t.start + 1) % t.limit
}

func (t *Trail) Len() int { return len(t.points) }

func (t *Trail) Limit() int { return t.limit }

// At returns the i-th newest position; At(0) is the latest.
func (t *Trail) At(i int) Point {
	n := len(t.points)
	if i < 0 || i >= n {
		panic("pendulum: trail index out of range")
	}
	return t.points[(t.start+n-1-i)%n]
}

func (t *Trail) Latest() (Point, bool) {
	if len(t.points) == 0 {
		return Point{}, false
	}
	return t.At(0), true
}

// Points copies the trail, newest first.
func (t *Trail) Points() []Point {
	out := make([]Point, len(t.points))
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

func (t *Trail) Clear() {
	t.points = t.points[:0]
	t.start = 0
}

func (t *Trail) Clone() *Trail {
	c := &Trail{
		points: make([]Point, len(t.points), cap(t.points)),
		start:  t.start,
		limit:  t.limit,
	}
	copy(c.points, t.points)
	return c
}
