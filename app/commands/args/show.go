package args

import (
	"fmt"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// ShowCommand prints the structured document or the persisted artifact.
type ShowCommand struct{}

func init() {
	RegisterCommand(&ShowCommand{})
}

func (c *ShowCommand) Name() string { return "show" }

func (c *ShowCommand) Description() string {
	return "Shows the structured view of the project, or the artifact itself with --raw."
}

func (c *ShowCommand) Usage() string { return "[--raw]" }

func (c *ShowCommand) ExpectedArgs() []ArgDef { return []ArgDef{} }

func (c *ShowCommand) ExpectedFlags() []FlagDef {
	return append([]FlagDef{
		{Name: "raw", ShortName: "r", Description: "Print the artifact as stored on disk.", HasValue: false},
	}, globalFlags...)
}

func (c *ShowCommand) Execute(args cli.CommandArgs) error {
	return withSession(args, func(s *session.Session) error {
		text := s.Workspace.Document()
		if switchOn(args, "raw", "r") {
			// A fresh project has nothing on disk yet; show what a save would write.
			text = s.Workspace.Raw()
			if text == "" {
				text = s.Workspace.Artifact()
			}
		}
		_, err := fmt.Fprint(Stdout, text)
		return err
	})
}
