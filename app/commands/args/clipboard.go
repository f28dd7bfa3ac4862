package args

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// CopyCommand copies the structured view or the artifact to the clipboard.
type CopyCommand struct{}

// PasteCommand inserts clipboard text into the control loop.
type PasteCommand struct{}

func init() {
	RegisterCommand(&CopyCommand{})
	RegisterCommand(&PasteCommand{})
}

func (c *CopyCommand) Name() string { return "copy" }

func (c *CopyCommand) Description() string {
	return "Copies the structured view, or the full artifact with --raw, to the system clipboard."
}

func (c *CopyCommand) Usage() string { return "[--raw]" }

func (c *CopyCommand) ExpectedArgs() []ArgDef { return []ArgDef{} }

func (c *CopyCommand) ExpectedFlags() []FlagDef {
	return append([]FlagDef{
		{Name: "raw", ShortName: "r", Description: "Copy the artifact instead of the structured view.", HasValue: false},
	}, globalFlags...)
}

func (c *CopyCommand) Execute(args cli.CommandArgs) error {
	return withSession(args, func(s *session.Session) error {
		text := s.Workspace.Document()
		if switchOn(args, "raw", "r") {
			text = s.Workspace.Artifact()
		}
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("failed to write to clipboard: %w", err)
		}
		fmt.Fprintf(Stdout, "Copied %d bytes to the clipboard.\n", len(text))
		return nil
	})
}

func (c *PasteCommand) Name() string { return "paste" }

func (c *PasteCommand) Description() string {
	return "Inserts the clipboard contents before a line of the structured view, below the control loop only."
}

func (c *PasteCommand) Usage() string { return "<line>" }

func (c *PasteCommand) ExpectedArgs() []ArgDef {
	return []ArgDef{{Name: "line", Description: "1-based line of `codebot show` to insert before.", Required: true}}
}

func (c *PasteCommand) ExpectedFlags() []FlagDef { return globalFlags }

func (c *PasteCommand) Execute(args cli.CommandArgs) error {
	line, err := parseLine(args.Variables[0])
	if err != nil {
		return err
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	if text == "" {
		return fmt.Errorf("clipboard is empty")
	}
	return withSession(args, func(s *session.Session) error {
		return insertAndSave(s, line, text)
	})
}
