package args

import (
	"fmt"
	"time"

	"github.com/Guerrilla-Interactive/codebot-cli/app"
	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/history"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// StatsCommand runs one headless save and prints the sync counters along
// with what the project registry knows about the project.
type StatsCommand struct{}

func init() {
	RegisterCommand(&StatsCommand{})
}

func (c *StatsCommand) Name() string { return "stats" }

func (c *StatsCommand) Description() string {
	return "Saves the project once and prints sync counters and project usage."
}

func (c *StatsCommand) Usage() string { return "" }

func (c *StatsCommand) ExpectedArgs() []ArgDef { return []ArgDef{} }

func (c *StatsCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *StatsCommand) Execute(args cli.CommandArgs) error {
	return withSession(args, func(s *session.Session) error {
		if err := s.Workspace.SaveAs(history.TriggerCLI); err != nil {
			return err
		}
		s.MarkSaved()

		samples, err := s.Workspace.Metrics().Snapshot()
		if err != nil {
			return err
		}
		fmt.Fprintf(Stdout, "Project: %s (%s)\n", s.Info.Name, s.Root)
		fmt.Fprintf(Stdout, "Artifact: %s\n", s.Workspace.Path())
		if s.Registry != nil {
			if info, ok := s.Registry.GetProject(s.Root); ok {
				fmt.Fprintf(Stdout, "Opened %d times, last saved %s\n", info.UsageCount, time.Unix(info.LastSaveTime, 0).Format(time.RFC3339))
			}
		}
		fmt.Fprintln(Stdout)
		fmt.Fprintln(Stdout, app.SummarizeSync(samples, 2))
		return nil
	})
}
