package pocket

// BallID is the physics collaborator's opaque ball handle.
type BallID uint64

// Body is one side of a reported collision.
type Body struct {
	ID     BallID // meaningful for balls only
	Label  string
	Sensor bool
}

// IsBall reports whether the body is tagged as a ball.
func (b Body) IsBall() bool { return b.Label == LabelBall }

// Pair is one collision reported by the physics collaborator.
type Pair struct {
	A, B Body
}

// Event is a semantic pocket entry.
type Event struct {
	Ball BallID
	Kind Kind
}

// Handler consumes pocket events. It must request removal of the ball before it
// returns so the same ball is never reported again.
type Handler func(Event)

// Router filters collision pairs into pocket events for a single subscriber.
type Router struct {
	handler Handler
}

// NewRouter creates a router that delivers to h.
func NewRouter(h Handler) *Router {
	return &Router{handler: h}
}

// Classify returns the event for a pair, if any. An event exists iff exactly one
// side is a ball and the other side is a sensor.
func Classify(p Pair) (Event, bool) {
	var ball, other Body
	switch {
	case p.A.IsBall() && !p.B.IsBall():
		ball, other = p.A, p.B
	case p.B.IsBall() && !p.A.IsBall():
		ball, other = p.B, p.A
	default:
		return Event{}, false
	}
	if !other.Sensor {
		return Event{}, false
	}
	return Event{Ball: ball.ID, Kind: KindFromLabel(other.Label)}, true
}

// Route classifies p and delivers the event synchronously. It reports whether an
// event was emitted.
func (r *Router) Route(p Pair) bool {
	ev, ok := Classify(p)
	if !ok {
		return false
	}
	if r.handler != nil {
		r.handler(ev)
	}
	return true
}

// RouteAll routes pairs in the order they were reported and returns the number of
// emitted events.
func (r *Router) RouteAll(pairs []Pair) int {
	n := 0
	for _, p := range pairs {
		if r.Route(p) {
			n++
		}
	}
	return n
}
