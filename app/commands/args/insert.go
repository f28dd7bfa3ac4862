package args

import (
	"fmt"
	"strconv"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/history"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// InsertCommand inserts a palette snippet into the control loop.
type InsertCommand struct{}

func init() {
	RegisterCommand(&InsertCommand{})
}

func (c *InsertCommand) Name() string { return "insert" }

func (c *InsertCommand) Description() string {
	return "Inserts a palette snippet before a line of the structured view. Lines above the control loop are refused."
}

func (c *InsertCommand) Usage() string { return "<snippet> <line>" }

func (c *InsertCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{
		{Name: "snippet", Description: "Snippet key or label, see `codebot snippets`.", Required: true},
		{Name: "line", Description: "1-based line of `codebot show` to insert before.", Required: true},
	}
}

func (c *InsertCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *InsertCommand) Execute(args cli.CommandArgs) error {
	line, err := parseLine(args.Variables[1])
	if err != nil {
		return err
	}
	return withSession(args, func(s *session.Session) error {
		pal, err := s.Palette()
		if err != nil {
			return err
		}
		sn, ok := pal.Lookup(args.Variables[0])
		if !ok {
			return fmt.Errorf("unknown snippet %q", args.Variables[0])
		}
		return insertAndSave(s, line, sn.Text())
	})
}

// parseLine turns a 1-based line argument into a 0-based index.
func parseLine(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("line must be a positive number, got %q", arg)
	}
	return n - 1, nil
}

// insertAndSave runs a guarded insertion and persists the result. Unlike the
// editor, the command line reports a refused position.
func insertAndSave(s *session.Session, line int, text string) error {
	if !s.Workspace.InsertSnippet(line, text) {
		if b, ok := s.Workspace.Boundary(); ok {
			return fmt.Errorf("cannot insert at line %d: insertions must go below line %d (def control_loop)", line+1, b+1)
		}
		return fmt.Errorf("cannot insert at line %d: the document has no control loop", line+1)
	}
	if err := s.Workspace.SaveAs(history.TriggerCLI); err != nil {
		return err
	}
	s.MarkSaved()
	fmt.Fprintf(Stdout, "Inserted at line %d of %s\n", line+1, s.Workspace.Path())
	return nil
}
