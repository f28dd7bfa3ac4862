package args

import (
	"fmt"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// ParamsCommand lists every parameter with its current value.
type ParamsCommand struct{}

func init() {
	RegisterCommand(&ParamsCommand{})
}

func (c *ParamsCommand) Name() string { return "params" }

func (c *ParamsCommand) Description() string {
	return "Lists the movement parameters, their current values and accepted ranges."
}

func (c *ParamsCommand) Usage() string { return "" }

func (c *ParamsCommand) ExpectedArgs() []ArgDef { return []ArgDef{} }

func (c *ParamsCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *ParamsCommand) Execute(args cli.CommandArgs) error {
	return withSession(args, func(s *session.Session) error {
		printParams(s.Workspace.Params())
		return nil
	})
}

func printParams(p *params.Set) {
	for _, d := range params.Descriptors() {
		fmt.Fprintf(Stdout, "  %-20s %-8s %s\n", d.Name, p.Value(d.Name), d.Hint())
	}
}
