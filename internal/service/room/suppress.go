package room

// GuardState is the echo-suppression state of one kind of player action.
type GuardState int

const (
	// Idle: player events of this kind are genuine local intent.
	Idle GuardState = iota
	// AwaitingOwnEcho: the client triggered the action itself and the next matching
	// player event is its echo.
	AwaitingOwnEcho
)

func (s GuardState) String() string {
	if s == AwaitingOwnEcho {
		return "awaiting_own_echo"
	}

	return "idle"
}

// Guard suppresses the player event caused by a programmatic play, pause or seek.
type Guard struct {
	state GuardState
}

// Arm is called right before the programmatic action.
func (g *Guard) Arm() {
	g.state = AwaitingOwnEcho
}

// Consume is called for every matching player event. It reports whether the event is
// the awaited echo, returning the guard to Idle if so.
func (g *Guard) Consume() bool {
	if g.state != AwaitingOwnEcho {
		return false
	}

	g.state = Idle
	return true
}

func (g *Guard) Reset() {
	g.state = Idle
}

func (g *Guard) State() GuardState {
	return g.state
}

// guards holds one Guard per action kind.
type guards struct {
	play  Guard
	pause Guard
	seek  Guard
}

func (g *guards) reset() {
	g.play.Reset()
	g.pause.Reset()
	g.seek.Reset()
}
