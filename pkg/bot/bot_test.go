package bot_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	// Packages
	"github.com/stretchr/testify/assert"

	stockbot "github.com/mutablelogic/go-stockbot"
	agent "github.com/mutablelogic/go-stockbot/pkg/agent"
	bot "github.com/mutablelogic/go-stockbot/pkg/bot"
	schema "github.com/mutablelogic/go-stockbot/pkg/schema"
	stockdb "github.com/mutablelogic/go-stockbot/pkg/stockdb"
	stocktool "github.com/mutablelogic/go-stockbot/pkg/stocktool"
	ui "github.com/mutablelogic/go-stockbot/pkg/ui"
)

///////////////////////////////////////////////////////////////////////////////
// STUBS

// stubContext records everything the bot sends, in order.
type stubContext struct {
	id   string
	sent []string
}

var _ ui.Context = (*stubContext)(nil)

func (c *stubContext) UserID() string   { return "100" }
func (c *stubContext) UserName() string { return "tester" }

func (c *stubContext) ConversationID() string {
	if c.id != "" {
		return c.id
	}
	return "chat-1"
}

func (c *stubContext) SendText(_ context.Context, text string) error {
	c.sent = append(c.sent, "text:"+text)
	return nil
}

func (c *stubContext) SendMarkdown(_ context.Context, markdown string) error {
	c.sent = append(c.sent, "markdown:"+markdown)
	return nil
}

func (c *stubContext) SendPhoto(_ context.Context, photo ui.Photo) error {
	data, err := io.ReadAll(photo.Data)
	if err != nil {
		return err
	}
	c.sent = append(c.sent, "photo:"+string(data))
	return nil
}

func (c *stubContext) SetTyping(_ context.Context, _ bool) error {
	return nil
}

// stubLLM returns scripted responses in order and records the requests.
type stubLLM struct {
	asks      []agent.AskRequest
	chats     []agent.ChatRequest
	responses []*agent.Response
}

func (s *stubLLM) next() *agent.Response {
	if len(s.responses) == 0 {
		return &agent.Response{Text: "", Result: schema.ResultStop}
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	return response
}

func (s *stubLLM) Ask(_ context.Context, request agent.AskRequest) (*agent.Response, error) {
	s.asks = append(s.asks, request)
	return s.next(), nil
}

func (s *stubLLM) Chat(_ context.Context, request agent.ChatRequest) (*agent.Response, error) {
	s.chats = append(s.chats, request)
	return s.next(), nil
}

// stubStore returns a fixed series (or error) and records the query.
type stubStore struct {
	queries []string
	series  []stockdb.PricePoint
	err     error
}

func (s *stubStore) Query(_ context.Context, query string) ([]stockdb.PricePoint, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.series, nil
}

func series() []stockdb.PricePoint {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []stockdb.PricePoint{
		{Date: base, Close: 400, Ticker: "MSFT"},
		{Date: base.AddDate(0, 0, 3), Close: 410, Ticker: "MSFT"},
		{Date: base.AddDate(0, 0, 4), Close: 405, Ticker: "MSFT"},
	}
}

func event(ctx *stubContext, text string) ui.Event {
	evt := ui.Event{Type: ui.EventText, Context: ctx, Text: text}
	if strings.HasPrefix(text, "/") {
		parts := strings.Fields(text)
		evt.Type = ui.EventCommand
		evt.Command = strings.TrimPrefix(parts[0], "/")
		evt.Args = parts[1:]
	}
	return evt
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_bot_001(t *testing.T) {
	assert := assert.New(t)

	chat := new(stubContext)
	b, err := bot.New(stubChatUI{}, new(stubLLM), new(stubStore))
	if !assert.NoError(err) {
		t.FailNow()
	}

	// /start replies with the greeting
	b.Handle(context.TODO(), event(chat, "/start"))
	if assert.Len(chat.sent, 1) {
		assert.True(strings.HasPrefix(chat.sent[0], "markdown:"))
		assert.Contains(chat.sent[0], "2024")
	}

	// Unknown command
	chat.sent = nil
	b.Handle(context.TODO(), event(chat, "/frobnicate"))
	if assert.Len(chat.sent, 1) {
		assert.Contains(chat.sent[0], "/start")
	}
}

func Test_bot_002(t *testing.T) {
	assert := assert.New(t)

	chat := new(stubContext)
	b, err := bot.New(stubChatUI{}, new(stubLLM), new(stubStore))
	if !assert.NoError(err) {
		t.FailNow()
	}

	// Over-long requests are rejected before any model call
	b.Handle(context.TODO(), event(chat, strings.Repeat("x", 151)))
	if assert.Len(chat.sent, 1) {
		assert.Contains(chat.sent[0], "shorter")
	}
}

func Test_bot_003(t *testing.T) {
	assert := assert.New(t)

	chat := new(stubContext)
	llm := &stubLLM{
		responses: []*agent.Response{
			{Text: "```sql\nSELECT \"Date\", close FROM stock_data WHERE ticker = 'MSFT' ORDER BY \"Date\" ASC\n```", Result: schema.ResultStop},
			{Text: "MSFT rose over the period.", Result: schema.ResultStop},
		},
	}
	store := &stubStore{series: series()}
	b, err := bot.New(stubChatUI{}, llm, store)
	if !assert.NoError(err) {
		t.FailNow()
	}

	b.Handle(context.TODO(), event(chat, "How did Microsoft do in March 2024?"))

	// Code fences are stripped before the query reaches the store
	if assert.Len(store.queries, 1) {
		assert.Equal(`SELECT "Date", close FROM stock_data WHERE ticker = 'MSFT' ORDER BY "Date" ASC`, store.queries[0])
	}

	// Two progress messages, then the chart, then the write-up
	if assert.Len(chat.sent, 4) {
		assert.Contains(chat.sent[0], "Analysing")
		assert.Contains(chat.sent[1], "Preparing")
		assert.True(strings.HasPrefix(chat.sent[2], "photo:"))
		assert.Equal("markdown:MSFT rose over the period.", chat.sent[3])
	}

	// The second model call carries the statistics and the temperature
	if assert.Len(llm.asks, 2) {
		assert.Contains(llm.asks[0].Text, "stock_data")
		assert.Contains(llm.asks[1].Text, "Mean price")
		if assert.NotNil(llm.asks[1].Temperature) {
			assert.Equal(0.5, *llm.asks[1].Temperature)
		}
	}
}

func Test_bot_004(t *testing.T) {
	assert := assert.New(t)

	chat := new(stubContext)
	llm := &stubLLM{
		responses: []*agent.Response{
			{Text: "SELECT \"Date\", close FROM stock_data WHERE ticker = 'ZZZZ'", Result: schema.ResultStop},
		},
	}
	store := &stubStore{err: stockbot.ErrNoData}
	b, err := bot.New(stubChatUI{}, llm, store)
	if !assert.NoError(err) {
		t.FailNow()
	}

	b.Handle(context.TODO(), event(chat, "How did ZZZZ do in 2024?"))

	// Progress, then the no-data hint
	if assert.Len(chat.sent, 2) {
		assert.Contains(chat.sent[1], "MSFT")
		assert.Contains(chat.sent[1], "Microsoft")
	}
}

func Test_bot_005(t *testing.T) {
	assert := assert.New(t)

	charts := new(stocktool.Collector)
	charts.Add("chat-1", []byte("png-bytes"))
	charts.Add("chat-2", []byte("png-other"))

	chat := new(stubContext)
	llm := &stubLLM{
		responses: []*agent.Response{
			{Text: "MSFT gained 5% in March.", Result: schema.ResultStop},
		},
	}
	b, err := bot.New(stubChatUI{}, llm, new(stubStore), bot.WithTools(charts))
	if !assert.NoError(err) {
		t.FailNow()
	}

	b.Handle(context.TODO(), event(chat, "How did Microsoft do in March 2024?"))

	// Chat path: progress, rendered chart, then the response
	if assert.Len(chat.sent, 3) {
		assert.Contains(chat.sent[0], "Analysing")
		assert.Equal("photo:png-bytes", chat.sent[1])
		assert.Equal("markdown:MSFT gained 5% in March.", chat.sent[2])
	}

	// The session is kept per conversation and carries the system prompt
	if assert.Len(llm.chats, 1) {
		assert.NotNil(llm.chats[0].Session)
		assert.Contains(llm.chats[0].SystemPrompt, "stock analysis")
	}

	// Only this conversation's charts were drained
	assert.Empty(charts.Drain("chat-1"))
	assert.Len(charts.Drain("chat-2"), 1)
}

func Test_bot_006(t *testing.T) {
	assert := assert.New(t)

	// Two conversations each render a chart during their own turn; each
	// must receive its own, regardless of which finishes first.
	charts := new(stocktool.Collector)
	llm := &renderingLLM{charts: charts}
	b, err := bot.New(stubChatUI{}, llm, new(stubStore), bot.WithTools(charts))
	if !assert.NoError(err) {
		t.FailNow()
	}

	chatA := &stubContext{id: "chat-A"}
	chatB := &stubContext{id: "chat-B"}

	var wg sync.WaitGroup
	for _, chat := range []*stubContext{chatA, chatB} {
		wg.Add(1)
		go func(chat *stubContext) {
			defer wg.Done()
			b.Handle(context.TODO(), event(chat, "How did Microsoft do in March 2024?"))
		}(chat)
	}
	wg.Wait()

	for _, chat := range []*stubContext{chatA, chatB} {
		if assert.Len(chat.sent, 3) {
			assert.Equal("photo:chart-for-"+chat.ConversationID(), chat.sent[1])
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// HELPERS

// renderingLLM acts like a model that calls the chart tool once per turn:
// it drops a chart into the collector under the calling conversation.
type renderingLLM struct {
	charts *stocktool.Collector
}

func (s *renderingLLM) Ask(_ context.Context, _ agent.AskRequest) (*agent.Response, error) {
	return &agent.Response{Result: schema.ResultStop}, nil
}

func (s *renderingLLM) Chat(ctx context.Context, _ agent.ChatRequest) (*agent.Response, error) {
	id := stocktool.ConversationID(ctx)
	s.charts.Add(id, []byte("chart-for-"+id))
	return &agent.Response{Text: "done", Result: schema.ResultStop}, nil
}

// stubChatUI satisfies the constructor; events are injected via Handle.
type stubChatUI struct{}

func (stubChatUI) Receive(ctx context.Context) (ui.Event, error) {
	<-ctx.Done()
	return ui.Event{}, ctx.Err()
}

func (stubChatUI) Close() error { return nil }
