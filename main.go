package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Guerrilla-Interactive/codebot-cli/app"
	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	commands "github.com/Guerrilla-Interactive/codebot-cli/app/commands/args"
	"github.com/Guerrilla-Interactive/codebot-cli/app/project"
	"github.com/Guerrilla-Interactive/codebot-cli/app/screens"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
	"github.com/Guerrilla-Interactive/codebot-cli/app/watch"
)

// Define Version (will be set via linker flags during build)
var Version = "v0.1.0"

// ProgramModel wraps app.Model so we can hold Update logic in one place.
type ProgramModel struct {
	M               app.Model
	ProjectRegistry *project.ProjectRegistry
	Watcher         *watch.Watcher // nil when watching is disabled or failed to start
}

// Init starts the autosave timer and the file watcher.
func (pm ProgramModel) Init() tea.Cmd {
	cmds := []tea.Cmd{screens.AutosaveTick(pm.M.AutosaveEvery)}
	if pm.Watcher != nil {
		cmds = append(cmds, pm.Watcher.Wait())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming Msgs. It is the only caller of the workspace, so
// ticks, watch events and keys are applied one at a time.
func (pm ProgramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMsg := msg.(type) {

	case tea.WindowSizeMsg:
		pm.M.TerminalWidth = typedMsg.Width
		pm.M.TerminalHeight = typedMsg.Height
		pm.M = screens.Resize(pm.M)
		return pm, nil

	case screens.AutosaveMsg:
		pm.M = screens.Autosave(pm.M)
		return pm, screens.AutosaveTick(pm.M.AutosaveEvery)

	case watch.ChangedMsg:
		pm.M = screens.Reload(pm.M)
		return pm, pm.Watcher.Wait()

	case watch.ErrorMsg:
		pm.M.Status = "watch: " + typedMsg.Err.Error()
		pm.M.StatusIsError = true
		return pm, pm.Watcher.Wait()

	case tea.KeyMsg:
		if typedMsg.String() == "ctrl+c" {
			if err := pm.M.Session.Workspace.Save(); err != nil {
				pm.M.Session.Logger.Error("save on quit failed", "error", err)
			} else {
				pm.M.Session.MarkSaved()
			}
			return pm, tea.Quit
		}
		switch pm.M.CurrentScreen {
		case app.ScreenEditor:
			updatedM, cmd := screens.UpdateScreenEditor(pm.M, typedMsg)
			pm.M = updatedM
			return pm, cmd
		case app.ScreenPalette:
			updatedM, cmd := screens.UpdateScreenPalette(pm.M, typedMsg)
			pm.M = updatedM
			return pm, cmd
		case app.ScreenHelp:
			updatedM, cmd := screens.UpdateScreenHelp(pm.M, typedMsg)
			pm.M = updatedM
			return pm, cmd
		default:
			return pm, nil
		}
	}

	if pm.M.CurrentScreen == app.ScreenEditor {
		updatedM, cmd := screens.UpdateWorkspaceMsg(pm.M, msg)
		pm.M = updatedM
		return pm, cmd
	}
	return pm, nil
}

// View selects which screen's View function to call based on pm.M.CurrentScreen.
func (pm ProgramModel) View() string {
	switch pm.M.CurrentScreen {
	case app.ScreenEditor:
		return screens.ViewScreenEditor(pm.M)
	case app.ScreenPalette:
		return screens.ViewScreenPalette(pm.M)
	case app.ScreenHelp:
		return screens.ViewScreenHelp(pm.M)
	}
	return ""
}

func main() {
	args := os.Args[1:]

	projectRegistry, err := project.LoadProjectRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load project registry: %v\n", err)
		projectRegistry = nil
	}
	commands.Projects = projectRegistry

	parsedArgs := cli.ParseCommandLineArgs(args, commands.Checker{})
	if len(parsedArgs.Errors) > 0 {
		fmt.Fprintln(os.Stderr, "Error parsing arguments:")
		for _, err := range parsedArgs.Errors {
			fmt.Fprintf(os.Stderr, "  - %v\n", err)
		}
		os.Exit(1)
	}
	cli.SetDebugEnabled(parsedArgs.DebugRequested)

	if parsedArgs.VersionRequested {
		fmt.Printf("codebot %s\n", Version)
		os.Exit(0)
	}

	if parsedArgs.CommandName != "" {
		if parsedArgs.HelpRequested {
			displayCommandHelp(parsedArgs.CommandName)
			os.Exit(0)
		}
		executeAndExit(parsedArgs)
	}

	if parsedArgs.HelpRequested {
		displayGeneralHelp()
		os.Exit(0)
	}
	if len(parsedArgs.Variables) > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", parsedArgs.Variables[0])
		fmt.Fprintln(os.Stderr, "Run `codebot --help` for usage.")
		os.Exit(1)
	}

	if err := runInteractive(parsedArgs, projectRegistry); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runInteractive opens the project and runs the TUI until the user quits.
func runInteractive(parsedArgs cli.CommandArgs, registry *project.ProjectRegistry) error {
	projectDir := parsedArgs.Flags["project"]
	if projectDir == "" {
		projectDir = parsedArgs.Flags["p"]
	}
	s, err := session.Open(session.Options{
		ProjectDir: projectDir,
		Debug:      parsedArgs.DebugRequested,
		Registry:   registry,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	pal, err := s.Palette()
	if err != nil {
		return err
	}

	pm := ProgramModel{
		M:               screens.NewEditorModel(s, pal, Version),
		ProjectRegistry: registry,
	}
	if s.Config.WatchEnabled() {
		w, err := watch.New(s.Workspace.Path(), s.Logger)
		if err != nil {
			s.Logger.Warn("file watching disabled", "error", err)
		} else {
			w.Start()
			defer w.Stop()
			pm.Watcher = w
			pm.M.Watching = true
		}
	}

	p := tea.NewProgram(pm, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// displayGeneralHelp prints the top-level help message.
func displayGeneralHelp() {
	fmt.Println("codebot - edit robot movement parameters and logic side by side")
	fmt.Println("Usage: codebot [command] [variables...] [--flags...]")
	fmt.Println("Run without a command to open the editor.")

	allCmds := commands.GetAllCommands()
	fmt.Println("\nAvailable Commands:")
	for _, cmd := range allCmds {
		fmt.Printf("  %-18s %s\n", cmd.Name(), cmd.Description())
	}
	fmt.Println("\nRun 'codebot [command] --help' for more information on a specific command.")
	fmt.Println("\nGlobal Flags: --project/-p <dir>, --debug, --help/-h, --version")
}

// displayCommandHelp displays detailed help for a specific command.
func displayCommandHelp(commandName string) {
	cmd, found := commands.GetCommand(commandName)
	if !found {
		fmt.Printf("Error: Unknown command '%s'\n", commandName)
		displayGeneralHelp()
		return
	}

	fmt.Printf("Usage: codebot %s %s\n\n", cmd.Name(), cmd.Usage())
	fmt.Printf("  %s\n", cmd.Description())

	args := cmd.ExpectedArgs()
	if len(args) > 0 {
		fmt.Println("\nArguments:")
		for _, arg := range args {
			required := ""
			if arg.Required {
				required = " (required)"
			}
			fmt.Printf("  %-18s %s%s\n", arg.Name, arg.Description, required)
		}
	}

	flags := cmd.ExpectedFlags()
	if len(flags) > 0 {
		fmt.Println("\nFlags:")
		for _, flag := range flags {
			flagUsage := "--" + flag.Name
			if flag.ShortName != "" {
				flagUsage += ", -" + flag.ShortName
			}
			if flag.HasValue {
				flagUsage += " <value>"
			}
			required := ""
			if flag.Required {
				required = " (required)"
			}
			fmt.Printf("  %-18s %s%s\n", flagUsage, flag.Description, required)
		}
	}
	fmt.Println("\nGlobal Flags: --help, -h, --version")
}

// executeAndExit runs a direct command and exits with its status.
func executeAndExit(parsedArgs cli.CommandArgs) {
	if err := commands.Run(parsedArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
