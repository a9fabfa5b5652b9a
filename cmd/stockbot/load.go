package main

import (
	"os"

	// Packages
	stockdb "github.com/mutablelogic/go-stockbot/pkg/stockdb"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type LoadCmd struct {
	Path string `arg:"" type:"existingfile" help:"CSV file with stock prices"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *LoadCmd) Run(globals *Globals) error {
	file, err := os.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Parse and filter the CSV
	dataset, err := stockdb.ReadCSV(file)
	if err != nil {
		return err
	}
	globals.log.Info().Int("rows", len(dataset.Rows)).Msg("rows after filtering")

	// Create the table and bulk-load the rows
	db, err := globals.opendb(globals.ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Load(globals.ctx, dataset)
	if err != nil {
		return err
	}
	globals.log.Info().Int64("rows", n).Msg("rows loaded")
	return nil
}
