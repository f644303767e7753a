package model

// InboundUpdate is one platform update, reduced to what the session use
// case needs. Exactly one of Command, RawAction or Text is meaningful.
type InboundUpdate struct {
	ChatID     int64
	Username   string
	MessageID  int    // id of the triggering user message, message updates only
	CallbackID string // non-empty for button presses
	Command    string // "start", "referral", ... without the slash
	RawAction  string // undecoded button payload
	Text       string // free-form message text
}

// IsButton reports whether the update came from an inline button press.
func (u InboundUpdate) IsButton() bool { return u.CallbackID != "" }
