package args

import (
	"fmt"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/codegen"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// RenderCommand prints the canonical artifact for the current parameters.
type RenderCommand struct{}

func init() {
	RegisterCommand(&RenderCommand{})
}

func (c *RenderCommand) Name() string { return "render" }

func (c *RenderCommand) Description() string {
	return "Prints the generated movement file for the current parameters with the default logic."
}

func (c *RenderCommand) Usage() string { return "" }

func (c *RenderCommand) ExpectedArgs() []ArgDef { return []ArgDef{} }

func (c *RenderCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *RenderCommand) Execute(args cli.CommandArgs) error {
	return withSession(args, func(s *session.Session) error {
		_, err := fmt.Fprint(Stdout, codegen.Render(s.Workspace.Params()))
		return err
	})
}
