// Package telegram implements [ui.ChatUI] for Telegram bots using telebot v4.
package telegram

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	// Packages
	zerolog "github.com/rs/zerolog"

	"github.com/mutablelogic/go-stockbot/pkg/ui"
	tele "gopkg.in/telebot.v4"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Telegram implements [ui.ChatUI] for the Telegram Bot API.
type Telegram struct {
	bot    *tele.Bot
	events chan ui.Event
	done   chan struct{}
	log    zerolog.Logger
}

// Opt is a constructor option.
type Opt func(*Telegram)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a Telegram bot UI with the given token. It starts long-polling
// in a background goroutine and returns immediately.
func New(token string, opts ...Opt) (*Telegram, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	t := &Telegram{
		bot:    bot,
		events: make(chan ui.Event, 32),
		done:   make(chan struct{}),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	// Register handlers.
	bot.Handle(tele.OnText, t.onText)

	// Start polling in the background.
	go func() {
		bot.Start()
		close(t.done)
	}()

	return t, nil
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Opt {
	return func(t *Telegram) {
		t.log = log
	}
}

///////////////////////////////////////////////////////////////////////////////
// ChatUI IMPLEMENTATION

// Receive blocks until the next incoming event, context cancellation, or
// shutdown. It returns io.EOF when the bot is stopped.
func (t *Telegram) Receive(ctx context.Context) (ui.Event, error) {
	select {
	case evt := <-t.events:
		return evt, nil
	case <-ctx.Done():
		return ui.Event{}, ctx.Err()
	case <-t.done:
		return ui.Event{}, io.EOF
	}
}

// Close stops the bot poller and waits for it to finish.
func (t *Telegram) Close() error {
	t.bot.Stop()
	<-t.done
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// TELEBOT HANDLERS

func (t *Telegram) onText(c tele.Context) error {
	evt := t.textEvent(c)
	select {
	case t.events <- evt:
	default:
		// Drop if the consumer isn't keeping up.
		t.log.Warn().Str("user", evt.Context.UserID()).Str("conversation", evt.Context.ConversationID()).Msg("event queue full, message dropped")
	}
	return nil
}

// textEvent converts a telebot text message into a ui.Event, parsing
// slash commands (e.g. "/start") into EventCommand.
func (t *Telegram) textEvent(c tele.Context) ui.Event {
	ctx := newContext(c.Bot(), c.Chat(), c.Sender())
	text := c.Text()

	evt := ui.Event{
		Context: ctx,
		Text:    text,
	}

	if strings.HasPrefix(text, "/") {
		parts := strings.Fields(text)
		evt.Type = ui.EventCommand
		evt.Command = strings.TrimPrefix(parts[0], "/")
		if len(parts) > 1 {
			evt.Args = parts[1:]
		}
	} else {
		evt.Type = ui.EventText
	}

	return evt
}

///////////////////////////////////////////////////////////////////////////////
// CONTEXT

// telegramContext implements [ui.Context] for a single Telegram conversation.
type telegramContext struct {
	api  tele.API
	chat *tele.Chat
	user *tele.User
}

func newContext(api tele.API, chat *tele.Chat, user *tele.User) *telegramContext {
	return &telegramContext{
		api:  api,
		chat: chat,
		user: user,
	}
}

// UserID returns the Telegram user ID as a string.
func (c *telegramContext) UserID() string {
	if c.user != nil {
		return strconv.FormatInt(c.user.ID, 10)
	}
	return ""
}

// UserName returns the user's display name (username, or first+last name).
func (c *telegramContext) UserName() string {
	if c.user == nil {
		return ""
	}
	if c.user.Username != "" {
		return c.user.Username
	}
	name := c.user.FirstName
	if c.user.LastName != "" {
		name += " " + c.user.LastName
	}
	return name
}

// ConversationID returns the Telegram chat ID as a string.
func (c *telegramContext) ConversationID() string {
	if c.chat != nil {
		return strconv.FormatInt(c.chat.ID, 10)
	}
	return ""
}

// SendText sends a plain-text message to the conversation.
func (c *telegramContext) SendText(_ context.Context, text string) error {
	_, err := c.api.Send(c.chat, text)
	return err
}

// SendMarkdown sends a Markdown-formatted message, converting it to
// Telegram entities via goldmark-telegram.
func (c *telegramContext) SendMarkdown(_ context.Context, markdown string) error {
	text, entities := markdownToEntities(markdown)
	if len(entities) > 0 {
		_, err := c.api.Send(c.chat, text, entities)
		return err
	}
	_, err := c.api.Send(c.chat, text)
	return err
}

// SendPhoto sends an image to the conversation.
func (c *telegramContext) SendPhoto(_ context.Context, photo ui.Photo) error {
	p := &tele.Photo{
		File:    tele.FromReader(photo.Data),
		Caption: photo.Caption,
	}
	_, err := c.api.Send(c.chat, p)
	return err
}

// SetTyping sends (or ignores a stop for) the "typing" chat action.
func (c *telegramContext) SetTyping(_ context.Context, typing bool) error {
	if typing {
		return c.api.Notify(c.chat, tele.Typing)
	}
	return nil
}
