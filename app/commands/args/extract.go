package args

import (
	"fmt"
	"os"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/codegen"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
)

// ExtractCommand reads parameter values out of any text file.
type ExtractCommand struct{}

func init() {
	RegisterCommand(&ExtractCommand{})
}

func (c *ExtractCommand) Name() string { return "extract" }

func (c *ExtractCommand) Description() string {
	return "Prints the parameters found in a file. Values that are missing or malformed keep their defaults."
}

func (c *ExtractCommand) Usage() string { return "<file>" }

func (c *ExtractCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{{Name: "file", Description: "Any text file, usually a movement.py.", Required: true}}
}

func (c *ExtractCommand) ExpectedFlags() []FlagDef { return []FlagDef{} }

func (c *ExtractCommand) Execute(args cli.CommandArgs) error {
	data, err := os.ReadFile(args.Variables[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args.Variables[0], err)
	}
	defaults := params.Defaults()
	got := codegen.Extract(string(data), defaults)
	changed := make(map[string]bool)
	for _, name := range codegen.Changed(defaults, got) {
		changed[name] = true
	}
	for _, d := range params.Descriptors() {
		mark := ""
		if !changed[d.Name] {
			mark = "(default)"
		}
		fmt.Fprintf(Stdout, "  %-20s %-8s %s\n", d.Name, got.Value(d.Name), mark)
	}
	return nil
}
