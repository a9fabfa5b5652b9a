package main

import (
	"fmt"
	"os"

	// Packages
	agent "github.com/mutablelogic/go-stockbot/pkg/agent"
	analysis "github.com/mutablelogic/go-stockbot/pkg/analysis"
	chart "github.com/mutablelogic/go-stockbot/pkg/chart"
	sqlgen "github.com/mutablelogic/go-stockbot/pkg/sqlgen"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type AskCmd struct {
	Request string `arg:"" help:"Natural language request (e.g. \"How did MSFT do in March 2024?\")"`
	Model   string `name:"model" default:"gemini-2.5-flash" help:"Model used to answer the request"`
	Output  string `name:"output" default:"chart.png" help:"Path for the rendered chart"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *AskCmd) Run(globals *Globals) error {
	manager, err := globals.manager()
	if err != nil {
		return err
	}
	db, err := globals.opendb(globals.ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// Translate the request into SQL
	response, err := manager.Ask(globals.ctx, agent.AskRequest{
		Model: cmd.Model,
		Text:  sqlgen.Prompt(cmd.Request),
	})
	if err != nil {
		return err
	}
	query := sqlgen.Clean(response.Text)
	globals.log.Debug().Str("query", query).Msg("generated query")

	// Execute and analyse
	series, err := db.Query(globals.ctx, query)
	if err != nil {
		return err
	}
	stats, err := analysis.Compute(series)
	if err != nil {
		return err
	}

	// Render the chart
	png, err := chart.Render(series)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.Output, png, 0644); err != nil {
		return err
	}
	globals.log.Info().Str("path", cmd.Output).Int("points", len(series)).Msg("chart written")

	// Have the model write the summary
	temperature := 0.5
	summary, err := manager.Ask(globals.ctx, agent.AskRequest{
		Model:       cmd.Model,
		Text:        stats.Prompt(cmd.Request),
		Temperature: &temperature,
	})
	if err != nil {
		return err
	}

	fmt.Println(summary.Text)
	return nil
}
