package args

import (
	"fmt"
	"strings"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// SnippetsCommand lists the palette.
type SnippetsCommand struct{}

func init() {
	RegisterCommand(&SnippetsCommand{})
}

func (c *SnippetsCommand) Name() string { return "snippets" }

func (c *SnippetsCommand) Description() string {
	return "Lists the code snippets that can be inserted into the control loop."
}

func (c *SnippetsCommand) Usage() string { return "[--verbose]" }

func (c *SnippetsCommand) ExpectedArgs() []ArgDef { return []ArgDef{} }

func (c *SnippetsCommand) ExpectedFlags() []FlagDef {
	return append([]FlagDef{
		{Name: "verbose", Description: "Print snippet bodies too.", HasValue: false},
	}, globalFlags...)
}

func (c *SnippetsCommand) Execute(args cli.CommandArgs) error {
	return withSession(args, func(s *session.Session) error {
		pal, err := s.Palette()
		if err != nil {
			return err
		}
		verbose := args.BoolFlags["verbose"] || cli.IsVerboseEnabled()
		for _, cat := range pal.Categories {
			fmt.Fprintf(Stdout, "%s\n", cat.Name)
			for _, sn := range cat.Snippets {
				fmt.Fprintf(Stdout, "  %-22s %s\n", sn.Key, sn.Label)
				if verbose {
					for _, line := range strings.Split(sn.Text(), "\n") {
						fmt.Fprintf(Stdout, "      %s\n", line)
					}
				}
			}
		}
		return nil
	})
}
