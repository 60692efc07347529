package bot

import (
	"context"

	"recipebot/pkg/store"
)

// turn is the handling of a single event against a session copy.
type turn struct {
	ctx context.Context
	ev  Event
	s   *store.Session
	out Responder
}

func (t *turn) send(text string, kb *Keyboard) error {
	_, err := t.out.Send(t.ctx, t.ev.ChatID, text, kb)
	return err
}

// show redraws the screen the pressed button belongs to. Anything else,
// including screens with reply keyboards, goes out as a new message.
func (t *turn) show(text string, kb *Keyboard) error {
	if t.ev.Type == EventCallback && t.ev.MessageID != 0 && (kb == nil || kb.Kind == KeyboardInline) {
		return t.out.Edit(t.ctx, t.ev.ChatID, t.ev.MessageID, text, kb)
	}
	return t.send(text, kb)
}

func (t *turn) owner() int64 {
	return t.ev.UserID
}

func (t *turn) text() string {
	return t.ev.Text
}
