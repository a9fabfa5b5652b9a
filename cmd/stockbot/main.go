package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	godotenv "github.com/joho/godotenv"
	client "github.com/mutablelogic/go-client"
	zerolog "github.com/rs/zerolog"

	agent "github.com/mutablelogic/go-stockbot/pkg/agent"
	google "github.com/mutablelogic/go-stockbot/pkg/provider/google"
	openai "github.com/mutablelogic/go-stockbot/pkg/provider/openai"
	stockdb "github.com/mutablelogic/go-stockbot/pkg/stockdb"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Providers
	Gemini `embed:"" help:"Gemini configuration"`
	OpenAI `embed:"" help:"OpenAI configuration"`

	// Database
	Database `embed:"" help:"Database configuration"`

	// Context
	ctx context.Context
	log zerolog.Logger
}

type Gemini struct {
	GeminiKey string `env:"GEMINI_API_KEY" help:"Gemini API Key"`
}

type OpenAI struct {
	OpenAIKey string `env:"OPENAI_API_KEY" help:"OpenAI API Key"`
}

type Database struct {
	DBHost     string `env:"DB_HOST" default:"localhost:5432" help:"Postgres host and port"`
	DBName     string `env:"DB_NAME" default:"stocks" help:"Postgres database name"`
	DBUser     string `env:"DB_USER" default:"postgres" help:"Postgres user"`
	DBPassword string `env:"DB_PASSWORD" help:"Postgres password"`
}

type CLI struct {
	Globals

	// Commands
	Telegram TelegramCmd   `cmd:"" help:"Run the Telegram bot"`
	Ask      AskCmd        `cmd:"" help:"Answer one request from the command line"`
	Load     LoadCmd       `cmd:"" help:"Load stock prices from a CSV file"`
	Models   ListModelsCmd `cmd:"" help:"Return a list of models"`
	Version  VersionCmd    `cmd:"" help:"Print version information"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Load .env if present
	godotenv.Load() //nolint:errcheck

	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Stock analysis chat bot"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx

	// Create a logger
	level := zerolog.InfoLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	cli.Globals.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}

// clientOpts returns options shared by all provider clients.
func (g *Globals) clientOpts() []client.ClientOpt {
	result := []client.ClientOpt{}
	if g.Debug {
		result = append(result, client.OptTrace(os.Stderr, g.Verbose))
	}
	return result
}

// manager creates the agent manager with a client per configured provider.
func (g *Globals) manager(opts ...agent.Opt) (*agent.Manager, error) {
	if g.GeminiKey != "" {
		client, err := google.New(g.GeminiKey, g.clientOpts()...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, agent.WithClient(client))
	}
	if g.OpenAIKey != "" {
		client, err := openai.New(g.OpenAIKey, g.clientOpts()...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, agent.WithClient(client))
	}
	return agent.NewManager(opts...)
}

// opendb connects to the stock database.
func (g *Globals) opendb(ctx context.Context) (*stockdb.DB, error) {
	return stockdb.Open(ctx, stockdb.Config{
		Host:     g.DBHost,
		Name:     g.DBName,
		User:     g.DBUser,
		Password: g.DBPassword,
	})
}
