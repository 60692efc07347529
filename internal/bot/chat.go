package bot

import "context"

type EventType int

const (
	EventCommand EventType = iota + 1
	EventText
	EventCallback
)

func (t EventType) String() string {
	switch t {
	case EventCommand:
		return "command"
	case EventText:
		return "text"
	case EventCallback:
		return "callback"
	}
	return "unknown"
}

// Event is one inbound user action, already stripped of transport details.
type Event struct {
	Type   EventType
	UserID int64
	ChatID int64

	// Message carrying the pressed keyboard (callbacks only).
	MessageID  int
	CallbackID string

	Command string // lower case, without the leading slash
	Args    string
	Text    string
	Data    string

	Username  string
	FirstName string
}

type Button struct {
	Text string
	Data string
	URL  string
}

type KeyboardKind int

const (
	KeyboardInline KeyboardKind = iota + 1
	KeyboardReply
	KeyboardRemove
)

type Keyboard struct {
	Kind    KeyboardKind
	Rows    [][]Button
	OneTime bool
}

func Row(buttons ...Button) []Button {
	return buttons
}

func Inline(rows ...[]Button) *Keyboard {
	kept := rows[:0:0]
	for _, r := range rows {
		if len(r) > 0 {
			kept = append(kept, r)
		}
	}
	return &Keyboard{Kind: KeyboardInline, Rows: kept}
}

func ReplyKeyboard(oneTime bool, rows ...[]Button) *Keyboard {
	return &Keyboard{Kind: KeyboardReply, Rows: rows, OneTime: oneTime}
}

func RemoveKeyboard() *Keyboard {
	return &Keyboard{Kind: KeyboardRemove}
}

// Responder is the outbound side of the chat front-end. Text is HTML.
type Responder interface {
	Send(ctx context.Context, chatID int64, text string, kb *Keyboard) (int, error)
	// Edit replaces text and inline keyboard of an earlier message.
	Edit(ctx context.Context, chatID int64, messageID int, text string, kb *Keyboard) error
}
