// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/svgtree/internal/commands"
	"github.com/temirov/svgtree/internal/config"
	"github.com/temirov/svgtree/internal/export"
	"github.com/temirov/svgtree/internal/fonts"
	"github.com/temirov/svgtree/internal/highlight"
	"github.com/temirov/svgtree/internal/services/clipboard"
	"github.com/temirov/svgtree/internal/types"
	"github.com/temirov/svgtree/internal/utils"
)

const (
	outputFlagName       = "output"
	outputFlagShorthand  = "o"
	depthFlagName        = "depth"
	depthFlagShorthand   = "d"
	exclusionFlagName    = "exclude"
	exclusionShorthand   = "e"
	previewFlagName      = "file-preview"
	previewFlagShorthand = "p"
	pngFlagName          = "png"
	htmlFlagName         = "html"
	sizeFlagName         = "size"
	sizeFlagShorthand    = "s"
	themeFlagName        = "theme"
	gitignoreFlagName    = "gitignore"
	collapsedFlagName    = "collapsed"
	syntaxEngineFlagName = "syntax-engine"
	copyFlagName         = "copy"
	fontFlagName         = "font"
	configFlagName       = "config"
	verboseFlagName      = "verbose"
	versionFlagName      = "version"

	defaultPath       = "."
	defaultOutputPath = "tree.svg"
	defaultDepth      = 2
	defaultSize       = 1
	minimumSize       = 1
	maximumSize       = 8

	rootUse              = utils.ApplicationName + " [root]"
	rootShortDescription = "render a directory tree as an SVG, PNG or HTML document"
	rootLongDescription  = `svgtree scans a directory and draws it as a tree with file type icons,
themed colors, connector lines and optional inline previews of file contents.
The result is an SVG image by default; use --png for a raster image or --html
for an interactive page with collapsible folders.`
	rootUsageExample = `  # Two levels of the current directory
  svgtree

  # Preview Go sources and the README, skipping vendor
  svgtree -p '*.go,README.md' -e vendor ./project

  # Interactive page honouring .gitignore
  svgtree --html --gitignore -o docs/tree.html`

	outputFlagDescription       = "output file; the extension follows --png or --html"
	depthFlagDescription        = "deepest level to list; 0 lists only the top level"
	exclusionFlagDescription    = "comma-separated exclude patterns (repeatable)"
	previewFlagDescription      = "comma-separated patterns of files to preview (repeatable)"
	pngFlagDescription          = "export a PNG image through inkscape or rsvg-convert"
	htmlFlagDescription         = "write an interactive HTML document"
	sizeFlagDescription         = "PNG scale factor (1-8)"
	themeFlagDescription        = "TOML theme layered over the default theme"
	gitignoreFlagDescription    = "also honour the root's .gitignore and .ignore files"
	collapsedFlagDescription    = "start the HTML document with folders collapsed"
	syntaxEngineFlagDescription = "syntax highlighter: chroma or tree-sitter"
	copyFlagDescription         = "copy the SVG or HTML markup to the clipboard"
	fontFlagDescription         = "icon font file; downloaded on first use when omitted"
	configFlagDescription       = "configuration file (default ./" + utils.ConfigFileName + ")"
	verboseFlagDescription      = "log debug output"
	versionFlagDescription      = "display application version"

	versionTemplate             = "svgtree version: %s\n"
	outputWrittenFormat         = "Tree written to %s\n"
	errorSizeRangeFormat        = "--size must be between %d and %d, got %d"
	errorNegativeDepthFormat    = "--depth must not be negative, got %d"
	errorExclusiveFormats       = "--png and --html cannot be combined"
	errorClipboardCopyFormat    = "copy to clipboard: %w"
	errorWorkingDirectoryFormat = "unable to determine working directory: %w"
	logMessageClipboardSkip     = "clipboard copy skipped for raster output"
	logMessageCopied            = "copied to clipboard"
	logFieldPath                = "path"
)

var errMutuallyExclusiveFormats = errors.New(errorExclusiveFormats)

// application carries the collaborators of every command so tests can swap them.
type application struct {
	logger           *zap.Logger
	stdout           io.Writer
	fonts            commands.FontProvider
	exporter         commands.RasterExporter
	copier           clipboard.Copier
	workingDirectory string
	homeDirectory    string
	configHome       string
}

// Execute runs the svgtree application with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	app := &application{
		logger:   logger,
		stdout:   os.Stdout,
		exporter: export.NewExporter(),
		copier:   clipboard.NewService(),
	}
	return app.run(ctx, os.Args[1:])
}

func (app *application) run(ctx context.Context, arguments []string) error {
	rootCommand := app.createRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.ExecuteContext(ctx)
}

// renderFlags holds the render command's flag values before configuration is applied.
type renderFlags struct {
	outputPath        string
	depth             int
	exclusionPatterns []string
	previewPatterns   []string
	png               bool
	html              bool
	size              int
	themePath         string
	useGitignore      bool
	collapsed         bool
	syntaxEngine      string
	copy              bool
	fontPath          string
	configPath        string
	verbose           bool
	showVersion       bool
}

// createRootCommand builds the root Cobra command, which renders.
func (app *application) createRootCommand() *cobra.Command {
	flags := &renderFlags{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return app.configureLogger(flags.verbose)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, err := fmt.Fprintf(app.stdout, versionTemplate, utils.GetApplicationVersion())
				return err
			}
			root := defaultPath
			if len(arguments) > 0 {
				root = arguments[0]
			}
			return app.runRender(command, root, flags)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&flags.outputPath, outputFlagName, outputFlagShorthand, defaultOutputPath, outputFlagDescription)
	flagSet.IntVarP(&flags.depth, depthFlagName, depthFlagShorthand, defaultDepth, depthFlagDescription)
	flagSet.StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionShorthand, nil, exclusionFlagDescription)
	flagSet.StringArrayVarP(&flags.previewPatterns, previewFlagName, previewFlagShorthand, nil, previewFlagDescription)
	flagSet.IntVarP(&flags.size, sizeFlagName, sizeFlagShorthand, defaultSize, sizeFlagDescription)
	flagSet.StringVar(&flags.themePath, themeFlagName, "", themeFlagDescription)
	flagSet.StringVar(&flags.syntaxEngine, syntaxEngineFlagName, highlight.EngineChroma, syntaxEngineFlagDescription)
	flagSet.StringVar(&flags.fontPath, fontFlagName, "", fontFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlags(flagSet,
		booleanFlag{name: pngFlagName, target: &flags.png, usage: pngFlagDescription},
		booleanFlag{name: htmlFlagName, target: &flags.html, usage: htmlFlagDescription},
		booleanFlag{name: gitignoreFlagName, target: &flags.useGitignore, usage: gitignoreFlagDescription},
		booleanFlag{name: collapsedFlagName, target: &flags.collapsed, usage: collapsedFlagDescription},
		booleanFlag{name: copyFlagName, target: &flags.copy, usage: copyFlagDescription},
		booleanFlag{name: versionFlagName, target: &flags.showVersion, usage: versionFlagDescription},
	)
	registerBooleanFlags(rootCommand.PersistentFlags(),
		booleanFlag{name: verboseFlagName, target: &flags.verbose, usage: verboseFlagDescription},
	)

	rootCommand.AddCommand(
		app.createThemeCommand(),
		app.createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func (app *application) configureLogger(verbose bool) error {
	if !verbose {
		if app.logger == nil {
			app.logger = zap.NewNop()
		}
		return nil
	}
	debugLogger, loggerError := utils.NewLeveledLogger(zapcore.DebugLevel)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	app.logger = debugLogger
	return nil
}

func (app *application) runRender(command *cobra.Command, root string, flags *renderFlags) error {
	workingDirectory, workingDirectoryError := app.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
		HomeDirectory:    app.homeDirectory,
	})
	if configurationError != nil {
		return configurationError
	}
	applyConfiguration(command, flags, configuration.Render)

	if flags.png && flags.html {
		return errMutuallyExclusiveFormats
	}
	if flags.size < minimumSize || flags.size > maximumSize {
		return fmt.Errorf(errorSizeRangeFormat, minimumSize, maximumSize, flags.size)
	}
	if flags.depth < 0 {
		return fmt.Errorf(errorNegativeDepthFormat, flags.depth)
	}

	format := types.OutputSVG
	switch {
	case flags.html:
		format = types.OutputHTML
	case flags.png:
		format = types.OutputPNG
	}

	renderer := &commands.Renderer{Logger: app.logger, Fonts: app.fontProvider(), Exporter: app.exporter}
	result, renderError := renderer.Render(command.Context(), commands.RenderOptions{
		Root:              root,
		OutputPath:        normalizeOutputPath(flags.outputPath, format),
		Format:            format,
		MaxDepth:          flags.depth,
		ExclusionPatterns: utils.SplitPatterns(flags.exclusionPatterns),
		PreviewPatterns:   utils.SplitPatterns(flags.previewPatterns),
		UseIgnoreFiles:    flags.useGitignore,
		Collapsed:         flags.collapsed,
		Scale:             flags.size,
		ThemePath:         flags.themePath,
		FontPath:          flags.fontPath,
		SyntaxEngine:      flags.syntaxEngine,
		ConfigHome:        app.configHome,
	})
	if renderError != nil {
		return renderError
	}
	if _, printError := fmt.Fprintf(app.stdout, outputWrittenFormat, result.OutputPath); printError != nil {
		return printError
	}

	if !flags.copy {
		return nil
	}
	if format == types.OutputPNG {
		app.logger.Warn(logMessageClipboardSkip, zap.String(logFieldPath, result.OutputPath))
		return nil
	}
	if copyError := clipboard.CopyDocument(app.copier, result.OutputPath); copyError != nil {
		return fmt.Errorf(errorClipboardCopyFormat, copyError)
	}
	app.logger.Info(logMessageCopied, zap.String(logFieldPath, result.OutputPath))
	return nil
}

// applyConfiguration fills every flag the user did not pass with the configured value.
func applyConfiguration(command *cobra.Command, flags *renderFlags, configuration config.RenderConfiguration) {
	changed := command.Flags().Changed
	if !changed(outputFlagName) && configuration.Output != "" {
		flags.outputPath = configuration.Output
	}
	if !changed(depthFlagName) && configuration.Depth != nil {
		flags.depth = *configuration.Depth
	}
	if !changed(exclusionFlagName) && len(configuration.Exclude) > 0 {
		flags.exclusionPatterns = configuration.Exclude
	}
	if !changed(previewFlagName) && len(configuration.FilePreview) > 0 {
		flags.previewPatterns = configuration.FilePreview
	}
	if !changed(sizeFlagName) && configuration.Size != nil {
		flags.size = *configuration.Size
	}
	if !changed(themeFlagName) && configuration.Theme != "" {
		flags.themePath = configuration.Theme
	}
	if !changed(fontFlagName) && configuration.Font != "" {
		flags.fontPath = configuration.Font
	}
	if !changed(gitignoreFlagName) && configuration.UseGitignore != nil {
		flags.useGitignore = *configuration.UseGitignore
	}
	if !changed(collapsedFlagName) && configuration.Collapsed != nil {
		flags.collapsed = *configuration.Collapsed
	}
	if !changed(syntaxEngineFlagName) && configuration.SyntaxEngine != "" {
		flags.syntaxEngine = configuration.SyntaxEngine
	}
	if !changed(copyFlagName) && configuration.Clipboard != nil {
		flags.copy = *configuration.Clipboard
	}
}

// normalizeOutputPath makes the extension agree with the output format.
func normalizeOutputPath(outputPath string, format string) string {
	switch format {
	case types.OutputHTML:
		return utils.ReplaceExtension(outputPath, ".html", ".svg", ".png")
	case types.OutputPNG:
		return utils.ReplaceExtension(outputPath, ".png", ".svg")
	default:
		return outputPath
	}
}

func (app *application) fontProvider() commands.FontProvider {
	if app.fonts != nil {
		return app.fonts
	}
	return func(ctx context.Context, logger *zap.Logger) (string, error) {
		return fonts.Ensure(ctx, logger, fonts.Options{ConfigHome: app.configHome})
	}
}

func (app *application) resolveWorkingDirectory() (string, error) {
	if app.workingDirectory != "" {
		return app.workingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(errorWorkingDirectoryFormat, err)
	}
	return workingDirectory, nil
}
