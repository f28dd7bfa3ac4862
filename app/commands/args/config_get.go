package args

import (
	"fmt"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	config "github.com/Guerrilla-Interactive/codebot-cli/internal"
)

// ConfigGetCommand defines the command to get a configuration value.
type ConfigGetCommand struct{}

func init() {
	RegisterCommand(&ConfigGetCommand{})
}

func (c *ConfigGetCommand) Name() string {
	return "config get"
}

func (c *ConfigGetCommand) Description() string {
	return "Gets the effective value of a configuration key."
}

func (c *ConfigGetCommand) Usage() string {
	return "<key> [--global]"
}

func (c *ConfigGetCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{
		{Name: "key", Description: "The configuration key to get, e.g. autosave_seconds or params.forward_speed.", Required: true},
	}
}

func (c *ConfigGetCommand) ExpectedFlags() []FlagDef {
	return append([]FlagDef{
		{Name: "global", ShortName: "g", Description: "Get the global configuration value instead of the effective one.", HasValue: false, Required: false},
	}, globalFlags...)
}

func (c *ConfigGetCommand) Execute(args cli.CommandArgs) error {
	cfg, err := loadConfigScope(args)
	if err != nil {
		return err
	}
	value, err := cfg.Get(args.Variables[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(Stdout, value)
	return nil
}

// loadConfigScope returns the global config with --global, otherwise the
// config in effect for the project.
func loadConfigScope(args cli.CommandArgs) (config.Config, error) {
	if switchOn(args, "global", "g") {
		return config.LoadConfig()
	}
	root, err := configRoot(args)
	if err != nil {
		return config.Config{}, err
	}
	return config.Resolve(root)
}
