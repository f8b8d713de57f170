package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/svgtree/internal/config"
)

const (
	themeUse              = "theme"
	themeShortDescription = "print the effective theme as TOML"
	themeLongDescription  = `Print the theme a render would use: the built-in defaults, replaced by
$XDG_CONFIG_HOME/svgtree/default-theme.toml when present, with the --theme
file layered on top. Redirect the output to start a custom theme.`

	configUse                   = "config"
	configShortDescription      = "manage svgtree configuration"
	configInitUse               = "init"
	configInitShortDescription  = "write a default configuration file"
	globalFlagName              = "global"
	forceFlagName               = "force"
	globalFlagDescription       = "write to the global configuration directory"
	forceFlagDescription        = "overwrite an existing configuration file"
	configurationWrittenMessage = "Configuration written to %s\n"
	logMessageThemeWarning      = "theme warning"
	logFieldDetail              = "detail"
)

func (app *application) createThemeCommand() *cobra.Command {
	var themePath string
	themeCommand := &cobra.Command{
		Use:   themeUse,
		Short: themeShortDescription,
		Long:  themeLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			theme, loadError := config.LoadTheme(config.ThemeLoadOptions{
				UserThemePath: themePath,
				ConfigHome:    app.configHome,
				Warn: func(message string) {
					app.logger.Warn(logMessageThemeWarning, zap.String(logFieldDetail, message))
				},
			})
			if loadError != nil {
				return loadError
			}
			return theme.WriteTOML(app.stdout)
		},
	}
	themeCommand.Flags().StringVar(&themePath, themeFlagName, "", themeFlagDescription)
	return themeCommand
}

func (app *application) createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
	}
	configCommand.AddCommand(app.createConfigInitCommand())
	return configCommand
}

func (app *application) createConfigInitCommand() *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: app.workingDirectory,
				HomeDirectory:    app.homeDirectory,
			})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(app.stdout, configurationWrittenMessage, destinationPath)
			return printError
		},
	}
	registerBooleanFlags(initCommand.Flags(),
		booleanFlag{name: globalFlagName, target: &global, usage: globalFlagDescription},
		booleanFlag{name: forceFlagName, target: &force, usage: forceFlagDescription},
	)
	return initCommand
}
