package args

import (
	"fmt"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
)

// ConfigListCommand defines the command to list configuration values.
type ConfigListCommand struct{}

func init() {
	RegisterCommand(&ConfigListCommand{})
}

func (c *ConfigListCommand) Name() string {
	return "config list"
}

func (c *ConfigListCommand) Description() string {
	return "Lists all configuration keys and values."
}

func (c *ConfigListCommand) Usage() string {
	return "[--global]"
}

func (c *ConfigListCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{}
}

func (c *ConfigListCommand) ExpectedFlags() []FlagDef {
	return append([]FlagDef{
		{Name: "global", ShortName: "g", Description: "List only the global configuration.", HasValue: false, Required: false},
	}, globalFlags...)
}

func (c *ConfigListCommand) Execute(args cli.CommandArgs) error {
	cfg, err := loadConfigScope(args)
	if err != nil {
		return err
	}
	entries := cfg.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(Stdout, "No configuration set.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(Stdout, "  %-24s %s\n", e[0], e[1])
	}
	return nil
}
