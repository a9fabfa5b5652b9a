package main

import (
	// Packages
	agent "github.com/mutablelogic/go-stockbot/pkg/agent"
	bot "github.com/mutablelogic/go-stockbot/pkg/bot"
	stocktool "github.com/mutablelogic/go-stockbot/pkg/stocktool"
	telegram "github.com/mutablelogic/go-stockbot/pkg/ui/telegram"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type TelegramCmd struct {
	Token string `name:"token" env:"TELEGRAM_TOKEN" help:"Telegram Bot API token" required:""`
	Model string `name:"model" help:"Model used to answer requests" optional:""`
	Tools bool   `name:"tools" help:"Let the model drive requests through tool calls" optional:""`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *TelegramCmd) Run(globals *Globals) error {
	// Connect to the database
	db, err := globals.opendb(globals.ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// Bot options
	botopts := []bot.Opt{
		bot.WithLogger(globals.log),
	}
	if cmd.Model != "" {
		botopts = append(botopts, bot.WithModel(cmd.Model))
	}

	// In tool mode, register the stock tools with the manager and hand
	// the chart collector to the bot
	manageropts := []agent.Opt{}
	if cmd.Tools {
		toolkit, charts, err := stocktool.NewToolkit(db)
		if err != nil {
			return err
		}
		manageropts = append(manageropts, agent.WithToolkit(toolkit))
		botopts = append(botopts, bot.WithTools(charts))
	}

	manager, err := globals.manager(manageropts...)
	if err != nil {
		return err
	}

	// Create the Telegram frontend
	frontend, err := telegram.New(cmd.Token, telegram.WithLogger(globals.log))
	if err != nil {
		return err
	}
	defer frontend.Close()

	// Run until interrupted
	stockbot, err := bot.New(frontend, manager, db, botopts...)
	if err != nil {
		return err
	}
	return stockbot.Run(globals.ctx)
}
