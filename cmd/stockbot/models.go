package main

import (
	"encoding/json"
	"fmt"
	"os"

	// Packages
	version "github.com/mutablelogic/go-stockbot/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ListModelsCmd struct {
	Provider string `name:"provider" help:"Restrict to one provider (gemini, openai)" optional:""`
}

type VersionCmd struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListModelsCmd) Run(globals *Globals) error {
	manager, err := globals.manager()
	if err != nil {
		return err
	}

	models, err := manager.ListModels(globals.ctx, cmd.Provider)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(models, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func (cmd *VersionCmd) Run(_ *Globals) error {
	os.Stdout.Write(version.JSON(execName()))
	fmt.Println()
	return nil
}
