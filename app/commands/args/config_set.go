package args

import (
	"fmt"
	"strings"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
	config "github.com/Guerrilla-Interactive/codebot-cli/internal"
)

// ConfigSetCommand defines the command to set a configuration value.
type ConfigSetCommand struct{}

func init() {
	RegisterCommand(&ConfigSetCommand{})
}

func (c *ConfigSetCommand) Name() string {
	return "config set"
}

func (c *ConfigSetCommand) Description() string {
	return "Sets a configuration key in codebot.yaml, or in the global config with --global."
}

func (c *ConfigSetCommand) Usage() string {
	return "<key> <value> [--global]"
}

func (c *ConfigSetCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{
		{Name: "key", Description: "The configuration key to set.", Required: true},
		{Name: "value", Description: "The value to assign to the key.", Required: true},
	}
}

func (c *ConfigSetCommand) ExpectedFlags() []FlagDef {
	return append([]FlagDef{
		{Name: "global", ShortName: "g", Description: "Set the configuration globally instead of per-project.", HasValue: false, Required: false},
	}, globalFlags...)
}

func (c *ConfigSetCommand) Execute(args cli.CommandArgs) error {
	key, value := args.Variables[0], args.Variables[1]

	// Parameter seeds must be values the parameter accepts.
	if name, ok := strings.CutPrefix(key, "params."); ok {
		probe := params.Defaults()
		if err := probe.Set(name, value); err != nil {
			return err
		}
		value = probe.Value(name)
	}

	if switchOn(args, "global", "g") {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		path, _ := config.GlobalPath()
		fmt.Fprintf(Stdout, "Set %s = %s in %s\n", key, value, path)
		return nil
	}

	root, err := configRoot(args)
	if err != nil {
		return err
	}
	cfg, _, err := config.LoadProject(root)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveProject(root, cfg); err != nil {
		return err
	}
	fmt.Fprintf(Stdout, "Set %s = %s in %s/%s\n", key, value, root, config.ProjectFile)
	return nil
}

// configRoot resolves the project directory without opening the workspace.
func configRoot(args cli.CommandArgs) (string, error) {
	dir, _ := flag(args, "project", "p")
	info, err := session.ResolveRoot(dir, Projects)
	if err != nil {
		return "", err
	}
	return info.RootPath, nil
}
