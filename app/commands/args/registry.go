package args

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Guerrilla-Interactive/codebot-cli/app/cli"
	"github.com/Guerrilla-Interactive/codebot-cli/app/project"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// ArgDef is an alias for cli.ArgDef
type ArgDef = cli.ArgDef

// FlagDef is an alias for cli.FlagDef
type FlagDef = cli.FlagDef

// Command represents a CLI command that can be executed directly.
type Command interface {
	// Name returns the command's name (e.g., "set", "config get").
	Name() string
	// Description returns a brief help description for the command.
	Description() string
	// Execute runs the command logic with the parsed arguments.
	Execute(args cli.CommandArgs) error
	// Usage returns a brief usage string (e.g., "<name> <value>").
	Usage() string
	// ExpectedArgs returns definitions for expected positional arguments.
	ExpectedArgs() []ArgDef
	// ExpectedFlags returns definitions for expected flags.
	ExpectedFlags() []FlagDef
}

// commandRegistry holds all registered CLI commands.
var commandRegistry = make(map[string]Command)

// Stdout is where commands print their results. Tests swap it for a buffer.
var Stdout io.Writer = os.Stdout

// Projects is the registry handed to sessions opened by commands. main sets it
// after loading; nil keeps commands from touching the registry file.
var Projects *project.ProjectRegistry

// RegisterCommand adds a command to the registry.
// It is called from an init() function in each command's file.
func RegisterCommand(cmd Command) {
	if _, exists := commandRegistry[cmd.Name()]; exists {
		panic(fmt.Sprintf("Command already registered: %s", cmd.Name()))
	}
	commandRegistry[cmd.Name()] = cmd
}

// GetCommand retrieves a command from the registry by its name.
func GetCommand(name string) (Command, bool) {
	cmd, found := commandRegistry[name]
	return cmd, found
}

// CommandExists checks if a command with the given name is registered.
func CommandExists(name string) bool {
	_, found := commandRegistry[name]
	return found
}

// Checker adapts the registry to cli.CommandRegistryChecker.
type Checker struct{}

// CommandExists implements cli.CommandRegistryChecker.
func (Checker) CommandExists(name string) bool { return CommandExists(name) }

// GetAllCommands returns all registered commands sorted by name.
func GetAllCommands() []Command {
	cmds := make([]Command, 0, len(commandRegistry))
	for _, cmd := range commandRegistry {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	return cmds
}

// ValidateArgs checks the provided CommandArgs against the command's definitions.
func ValidateArgs(parsedArgs cli.CommandArgs, expectedArgs []ArgDef, expectedFlags []FlagDef) error {
	requiredArgCount := 0
	for _, argDef := range expectedArgs {
		if argDef.Required {
			requiredArgCount++
		}
	}

	if len(parsedArgs.Variables) < requiredArgCount {
		var requiredNames []string
		for i := 0; i < requiredArgCount; i++ {
			requiredNames = append(requiredNames, fmt.Sprintf("<%s>", expectedArgs[i].Name))
		}
		return fmt.Errorf("missing required arguments: %s", strings.Join(requiredNames, " "))
	}

	if len(parsedArgs.Variables) > len(expectedArgs) {
		return fmt.Errorf("too many arguments provided. Expected max %d, got %d", len(expectedArgs), len(parsedArgs.Variables))
	}

	for _, flagDef := range expectedFlags {
		if flagDef.Required {
			_, longExists := parsedArgs.Flags[flagDef.Name]
			_, shortExists := parsedArgs.Flags[flagDef.ShortName]
			found := longExists || (flagDef.ShortName != "" && shortExists)
			if !found {
				flagName := "--" + flagDef.Name
				if flagDef.ShortName != "" {
					flagName += "/-" + flagDef.ShortName
				}
				return fmt.Errorf("missing required flag: %s", flagName)
			}
		}
	}
	return nil
}

// Run validates parsed against its command's definitions and executes it.
func Run(parsed cli.CommandArgs) error {
	cmd, found := GetCommand(parsed.CommandName)
	if !found {
		return fmt.Errorf("unknown command %q", parsed.CommandName)
	}
	if err := ValidateArgs(parsed, cmd.ExpectedArgs(), cmd.ExpectedFlags()); err != nil {
		return err
	}
	return cmd.Execute(parsed)
}

// flag returns a flag value given by long or short name.
func flag(args cli.CommandArgs, long, short string) (string, bool) {
	if v, ok := args.Flags[long]; ok {
		return v, true
	}
	if short != "" {
		if v, ok := args.Flags[short]; ok {
			return v, true
		}
	}
	return "", false
}

// switchOn reports whether a boolean flag was given by long or short name.
func switchOn(args cli.CommandArgs, long, short string) bool {
	return args.BoolFlags[long] || (short != "" && args.BoolFlags[short])
}

// openSession opens the project named by --project, or the one around the
// working directory.
func openSession(args cli.CommandArgs) (*session.Session, error) {
	dir, _ := flag(args, "project", "p")
	return session.Open(session.Options{
		ProjectDir: dir,
		Console:    os.Stderr,
		Debug:      args.DebugRequested || cli.IsDebugEnabled(),
		Registry:   Projects,
	})
}

// withSession runs fn against an opened session and closes it afterwards.
func withSession(args cli.CommandArgs, fn func(s *session.Session) error) error {
	s, err := openSession(args)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// globalFlags are accepted by every command.
var globalFlags = []FlagDef{
	{Name: "project", ShortName: "p", Description: "Project directory (defaults to the detected project).", HasValue: true},
	{Name: "debug", Description: "Enable debug logging.", HasValue: false},
}
