package model

// Button is one inline keyboard button. Exactly one of Action (callback
// payload) or URL is set.
type Button struct {
	Text   string `json:"text"`
	Action string `json:"callback_data,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Keyboard is an inline keyboard: rows of buttons.
type Keyboard [][]Button

func Row(buttons ...Button) []Button { return buttons }

// Content is everything the renderer needs to show one screen.
type Content struct {
	Text     string
	Image    []byte
	Keyboard Keyboard
}

// HasImage reports whether the rendered message must be photo-form.
func (c Content) HasImage() bool { return len(c.Image) > 0 }

// MessageRef points at the most recent bot-authored message in a chat.
// HasPhoto is recorded at send time because the platform forbids editing
// a message into a different content type.
type MessageRef struct {
	ID       int  `json:"id"`
	HasPhoto bool `json:"has_photo"`
}
