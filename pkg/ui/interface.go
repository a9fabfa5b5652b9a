// Package ui defines the interface for chat user interfaces.
//
// Implementations of [ChatUI] adapt chat platforms (Telegram, terminal)
// to a common event-driven model. The bot receives incoming events via
// [ChatUI.Receive] and sends responses (text, photos, typing indicators)
// through a [Context] obtained from each event.
package ui

import (
	"context"
	"io"
)

///////////////////////////////////////////////////////////////////////////////
// INTERFACES

// ChatUI is the top-level interface that every chat frontend must implement.
// It is an event source: callers loop over [Receive] to process incoming
// user activity.
type ChatUI interface {
	// Receive blocks until the next incoming event is available, the
	// context is cancelled, or the interface is closed. It returns
	// io.EOF when the interface is permanently closed.
	Receive(ctx context.Context) (Event, error)

	// Close releases resources held by the interface.
	Close() error
}

// Context represents the conversation context for a single event. It
// identifies the user and conversation, and provides methods for the bot
// to send responses back to the same conversation.
type Context interface {
	// UserID returns a platform-specific unique identifier for the user
	// who triggered the event.
	UserID() string

	// UserName returns a human-readable display name for the user.
	UserName() string

	// ConversationID returns a unique identifier for the conversation
	// (e.g. Telegram chat ID).
	ConversationID() string

	// SendText sends a plain-text message to the conversation.
	SendText(ctx context.Context, text string) error

	// SendMarkdown sends a Markdown-formatted message. Platforms that
	// support rich text should render it natively; others may fall back
	// to plain text.
	SendMarkdown(ctx context.Context, markdown string) error

	// SendPhoto sends an image to the conversation, with an optional
	// caption.
	SendPhoto(ctx context.Context, photo Photo) error

	// SetTyping signals that the bot is "typing" (or processing). Call
	// with typing=true to start and typing=false to stop. Implementations
	// may ignore the stop call if the platform handles it automatically.
	SetTyping(ctx context.Context, typing bool) error
}

///////////////////////////////////////////////////////////////////////////////
// EVENT TYPES

// EventType identifies the kind of incoming event.
type EventType int

const (
	EventText    EventType = iota // User sent a text message
	EventCommand                  // User sent a slash command (e.g. /start)
)

func (t EventType) String() string {
	switch t {
	case EventText:
		return "text"
	case EventCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Event represents an incoming event from the user.
type Event struct {
	// Type identifies what kind of event this is.
	Type EventType

	// Context provides the conversation context and response methods.
	Context Context

	// Text contains the message text (for EventText) or the full
	// command string including arguments (for EventCommand,
	// e.g. "/start").
	Text string

	// Command contains the parsed command name without the leading
	// slash (for EventCommand only, e.g. "start").
	Command string

	// Args contains the parsed command arguments (for EventCommand only).
	Args []string
}

///////////////////////////////////////////////////////////////////////////////
// PHOTO TYPES

// Photo represents an image to send to the user.
type Photo struct {
	// Filename is the filename to present to the user.
	Filename string

	// Caption is an optional caption shown with the image.
	Caption string

	// Data is the image content (PNG or JPEG).
	Data io.Reader
}
