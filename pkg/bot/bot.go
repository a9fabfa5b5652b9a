/*
bot ties the chat frontend, the model manager and the stock database
together into the event loop that answers stock-analysis requests.
*/
package bot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	// Packages
	"github.com/rs/zerolog"

	stockbot "github.com/mutablelogic/go-stockbot"
	agent "github.com/mutablelogic/go-stockbot/pkg/agent"
	analysis "github.com/mutablelogic/go-stockbot/pkg/analysis"
	chart "github.com/mutablelogic/go-stockbot/pkg/chart"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	sqlgen "github.com/mutablelogic/go-stockbot/pkg/sqlgen"
	stockdb "github.com/mutablelogic/go-stockbot/pkg/stockdb"
	stocktool "github.com/mutablelogic/go-stockbot/pkg/stocktool"
	ui "github.com/mutablelogic/go-stockbot/pkg/ui"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// LLM is the subset of the agent manager the bot depends on.
type LLM interface {
	Ask(ctx context.Context, request agent.AskRequest) (*agent.Response, error)
	Chat(ctx context.Context, request agent.ChatRequest) (*agent.Response, error)
}

// Store executes SQL queries against the stock database.
type Store interface {
	Query(ctx context.Context, query string) ([]stockdb.PricePoint, error)
}

// Bot runs the chat event loop.
type Bot struct {
	chat  ui.ChatUI
	llm   LLM
	store Store
	model string
	log   zerolog.Logger

	// Tool mode: when charts is set, requests go through the
	// tool-calling loop instead of the fixed pipeline.
	charts *stocktool.Collector

	// Per-conversation sessions for tool mode.
	mu       sync.Mutex
	sessions map[string]*session
}

// session is the tool-mode state of one conversation. Its lock serializes
// turns so concurrent messages never append to the history at once.
type session struct {
	mu   sync.Mutex
	conv schema.Conversation
}

// Opt is a bot constructor option.
type Opt func(*Bot) error

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// defaultModel answers requests unless overridden with WithModel.
const defaultModel = "gemini-2.5-flash"

// maxRequestLen caps the length of a user request, in characters.
const maxRequestLen = 150

const (
	msgGreeting = "👋 Hi! I can help you analyse daily prices of technology stocks for 2024.\n\n" +
		"Ask me something like:\n" +
		"• _How did Microsoft stock perform in March 2024?_\n" +
		"• _Show AAPL close prices for the first quarter of 2024._"
	msgTooLong    = "That request is a bit long for me. Please phrase the request shorter (150 characters at most)."
	msgAnalysing  = "🔎 Analysing your request… please wait."
	msgPreparing  = "📈 Data received. Preparing analytics and chart…"
	msgNoData     = "I couldn't find any data for that request. I have daily prices of technology stocks for 2024: try a ticker (MSFT) or a company name (Microsoft)."
	msgError      = "Sorry, something went wrong while processing your request. Please try again."
	msgUnknownCmd = "I don't know that command. Send /start for an introduction, or just ask me about a stock."
)

// toolSystemPrompt instructs the model in tool mode.
const toolSystemPrompt = "You are a stock analysis assistant with access to daily close prices " +
	"of technology stocks for the year 2024. Use the tools to fetch price series, compute " +
	"statistics and render charts. Answer in no more than 4-5 sentences, focusing on growth " +
	"or decline, volatility and the main takeaways. Do NOT mention SQL or databases."

// analysisTemperature is used for the analytical write-up.
const analysisTemperature = 0.5

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a bot over a chat frontend, a model manager and a stock store.
func New(chat ui.ChatUI, llm LLM, store Store, opts ...Opt) (*Bot, error) {
	if chat == nil || llm == nil || store == nil {
		return nil, stockbot.ErrBadParameter.With("chat, llm and store are required")
	}
	bot := &Bot{
		chat:     chat,
		llm:      llm,
		store:    store,
		model:    defaultModel,
		log:      zerolog.Nop(),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		if err := opt(bot); err != nil {
			return nil, err
		}
	}
	return bot, nil
}

// WithModel overrides the default model used for requests.
func WithModel(name string) Opt {
	return func(b *Bot) error {
		if name == "" {
			return stockbot.ErrBadParameter.With("model name is required")
		}
		b.model = name
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Opt {
	return func(b *Bot) error {
		b.log = log
		return nil
	}
}

// WithTools switches the bot into tool-calling mode. The collector receives
// charts rendered by the chart tool, which the bot drains after each turn.
// The tools themselves must be registered with the agent manager.
func WithTools(charts *stocktool.Collector) Opt {
	return func(b *Bot) error {
		if charts == nil {
			return stockbot.ErrBadParameter.With("chart collector is required")
		}
		b.charts = charts
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Run processes incoming events until the context is cancelled or the chat
// frontend is closed. Each event is handled in its own goroutine so a slow
// request doesn't block other conversations.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().Str("model", b.model).Bool("tools", b.charts != nil).Msg("bot started")
	for {
		evt, err := b.chat.Receive(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		} else if err != nil {
			return err
		}
		go b.handle(ctx, evt)
	}
}

// Handle processes a single request and replies through the event context.
// Exposed for one-shot use outside the event loop.
func (b *Bot) Handle(ctx context.Context, evt ui.Event) {
	b.handle(ctx, evt)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// handle dispatches one event. Any error or panic is reported to the user
// and the event loop keeps running.
func (b *Bot) handle(ctx context.Context, evt ui.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("recovered while handling event")
			evt.Context.SendText(ctx, msgError) //nolint:errcheck
		}
	}()

	var err error
	switch evt.Type {
	case ui.EventCommand:
		err = b.handleCommand(ctx, evt)
	case ui.EventText:
		err = b.handleRequest(ctx, evt)
	}
	if err != nil {
		b.log.Error().Err(err).Str("user", evt.Context.UserID()).Str("text", evt.Text).Msg("request failed")
		if errors.Is(err, stockbot.ErrNoData) || errors.Is(err, stockbot.ErrQueryRejected) {
			evt.Context.SendText(ctx, msgNoData) //nolint:errcheck
		} else {
			evt.Context.SendText(ctx, msgError) //nolint:errcheck
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, evt ui.Event) error {
	switch evt.Command {
	case "start":
		return evt.Context.SendMarkdown(ctx, msgGreeting)
	default:
		return evt.Context.SendText(ctx, msgUnknownCmd)
	}
}

func (b *Bot) handleRequest(ctx context.Context, evt ui.Event) error {
	request := evt.Text
	if len([]rune(request)) > maxRequestLen {
		return evt.Context.SendText(ctx, msgTooLong)
	}

	evt.Context.SetTyping(ctx, true) //nolint:errcheck
	if err := evt.Context.SendText(ctx, msgAnalysing); err != nil {
		return err
	}

	if b.charts != nil {
		return b.answerWithTools(ctx, evt.Context, request)
	}
	return b.answerWithPipeline(ctx, evt.Context, request)
}

// answerWithPipeline is the fixed request flow: generate SQL, execute it,
// compute statistics, render a chart and have the model write the summary.
func (b *Bot) answerWithPipeline(ctx context.Context, chat ui.Context, request string) error {
	// Translate the request into SQL
	response, err := b.llm.Ask(ctx, agent.AskRequest{
		Model: b.model,
		Text:  sqlgen.Prompt(request),
	})
	if err != nil {
		return err
	}
	query := sqlgen.Clean(response.Text)
	b.log.Debug().Str("query", query).Msg("generated query")

	// Execute it (the store validates the query first)
	series, err := b.store.Query(ctx, query)
	if err != nil {
		return err
	}

	if err := chat.SendText(ctx, msgPreparing); err != nil {
		return err
	}

	stats, err := analysis.Compute(series)
	if err != nil {
		return err
	}
	png, err := chart.Render(series)
	if err != nil {
		return err
	}

	// Have the model write the summary
	temperature := analysisTemperature
	summary, err := b.llm.Ask(ctx, agent.AskRequest{
		Model:       b.model,
		Text:        stats.Prompt(request),
		Temperature: &temperature,
	})
	if err != nil {
		return err
	}

	// Chart first, then the write-up
	if err := chat.SendPhoto(ctx, ui.Photo{
		Filename: "chart.png",
		Data:     bytes.NewReader(png),
	}); err != nil {
		return err
	}
	return chat.SendMarkdown(ctx, summary.Text)
}

// answerWithTools lets the model drive the request through the registered
// tools, keeping a per-conversation session. One turn runs at a time per
// conversation, and the tool context carries the conversation identifier
// so rendered charts come back to the right chat.
func (b *Bot) answerWithTools(ctx context.Context, chat ui.Context, request string) error {
	id := chat.ConversationID()
	session := b.session(id)
	session.mu.Lock()
	defer session.mu.Unlock()

	response, err := b.llm.Chat(stocktool.WithConversation(ctx, id), agent.ChatRequest{
		Model:        b.model,
		SystemPrompt: toolSystemPrompt,
		Text:         request,
		Session:      &session.conv,
		Progress: func(text string) {
			b.log.Debug().Str("progress", text).Msg("tool feedback")
		},
	})
	if err != nil {
		return err
	}

	// Send any charts the chart tool rendered during the turn
	for _, png := range b.charts.Drain(id) {
		if err := chat.SendPhoto(ctx, ui.Photo{
			Filename: "chart.png",
			Data:     bytes.NewReader(png),
		}); err != nil {
			return err
		}
	}

	if response.Result == schema.ResultMaxIterations {
		return chat.SendText(ctx, msgError)
	}
	return chat.SendMarkdown(ctx, response.Text)
}

// session returns the tool-mode state for a conversation, creating it on
// first use.
func (b *Bot) session(id string) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[id]
	if !ok {
		s = new(session)
		b.sessions[id] = s
	}
	return s
}
