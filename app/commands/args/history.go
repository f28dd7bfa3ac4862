package args

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/history"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// HistoryCommand lists saved revisions of the artifact.
type HistoryCommand struct{}

// HistoryShowCommand prints one revision.
type HistoryShowCommand struct{}

// HistoryRestoreCommand writes a revision back as the artifact.
type HistoryRestoreCommand struct{}

func init() {
	RegisterCommand(&HistoryCommand{})
	RegisterCommand(&HistoryShowCommand{})
	RegisterCommand(&HistoryRestoreCommand{})
}

var errNoHistory = errors.New("revision history is not available (check history_db)")

func (c *HistoryCommand) Name() string { return "history" }

func (c *HistoryCommand) Description() string {
	return "Lists the saved revisions of the movement file, newest first."
}

func (c *HistoryCommand) Usage() string { return "[--limit n]" }

func (c *HistoryCommand) ExpectedArgs() []ArgDef { return []ArgDef{} }

func (c *HistoryCommand) ExpectedFlags() []FlagDef {
	return append([]FlagDef{
		{Name: "limit", ShortName: "n", Description: "Maximum number of revisions (default 20).", HasValue: true},
	}, globalFlags...)
}

func (c *HistoryCommand) Execute(args cli.CommandArgs) error {
	limit := 0
	if v, ok := flag(args, "limit", "n"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("limit must be a positive number, got %q", v)
		}
		limit = n
	}
	return withSession(args, func(s *session.Session) error {
		if s.History == nil {
			return errNoHistory
		}
		revs, err := s.History.List(context.Background(), s.Root, limit)
		if err != nil {
			return err
		}
		if len(revs) == 0 {
			fmt.Fprintln(Stdout, "No revisions recorded yet.")
			return nil
		}
		for _, r := range revs {
			fmt.Fprintf(Stdout, "  %-6d %-20s %-9s %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Trigger, r.Hash[:12])
		}
		return nil
	})
}

func (c *HistoryShowCommand) Name() string { return "history show" }

func (c *HistoryShowCommand) Description() string { return "Prints a saved revision." }

func (c *HistoryShowCommand) Usage() string { return "<id>" }

func (c *HistoryShowCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{{Name: "id", Description: "Revision id from `codebot history`.", Required: true}}
}

func (c *HistoryShowCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *HistoryShowCommand) Execute(args cli.CommandArgs) error {
	return withSession(args, func(s *session.Session) error {
		rev, err := loadRevision(s, args.Variables[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(Stdout, rev.Content)
		return err
	})
}

func (c *HistoryRestoreCommand) Name() string { return "history restore" }

func (c *HistoryRestoreCommand) Description() string {
	return "Writes a saved revision back as the movement file, verbatim."
}

func (c *HistoryRestoreCommand) Usage() string { return "<id>" }

func (c *HistoryRestoreCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{{Name: "id", Description: "Revision id from `codebot history`.", Required: true}}
}

func (c *HistoryRestoreCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *HistoryRestoreCommand) Execute(args cli.CommandArgs) error {
	return withSession(args, func(s *session.Session) error {
		rev, err := loadRevision(s, args.Variables[0])
		if err != nil {
			return err
		}
		if rev.Project != s.Root {
			return fmt.Errorf("revision %d belongs to %s, not %s", rev.ID, rev.Project, s.Root)
		}
		if err := s.Workspace.Restore(rev.Content); err != nil {
			return err
		}
		s.MarkSaved()
		fmt.Fprintf(Stdout, "Restored revision %d to %s\n", rev.ID, s.Workspace.Path())
		return nil
	})
}

func loadRevision(s *session.Session, arg string) (history.Revision, error) {
	if s.History == nil {
		return history.Revision{}, errNoHistory
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return history.Revision{}, fmt.Errorf("revision id must be a number, got %q", arg)
	}
	return s.History.Get(context.Background(), id)
}
