package dialog

// EventKind says what kind of inbound update produced the event.
type EventKind int

const (
	// EventNone is the zero event; the machine ignores it.
	EventNone EventKind = iota
	// EventCommand is an explicit slash command.
	EventCommand
	// EventAction is a decoded button press.
	EventAction
	// EventText is free-form message text.
	EventText
)

// Commands the bot understands. Commands are global resets: they apply
// from any state, which is the only way out of a stuck session.
const (
	CommandStart    = "start"
	CommandReferral = "referral"
)

// Event is one inbound user update, already decoded and enriched with
// the facts the transition function needs. Verified reflects whether the
// user has passed the captcha gate; the session use case resolves it
// from the backend before calling Transition.
type Event struct {
	Kind     EventKind
	Command  string
	Action   Action
	Text     string
	Verified bool
}
