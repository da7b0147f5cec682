// Package cli provides the gitree command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitree/internal/config"
	"github.com/temirov/gitree/internal/output"
	"github.com/temirov/gitree/internal/services/archive"
	"github.com/temirov/gitree/internal/services/clipboard"
	"github.com/temirov/gitree/internal/tree"
	"github.com/temirov/gitree/internal/types"
	"github.com/temirov/gitree/internal/utils"
)

const (
	maxDepthFlagName       = "max-depth"
	allFlagName            = "all"
	allFlagShorthand       = "a"
	excludeFlagName        = "exclude"
	excludeFlagShorthand   = "e"
	includeFlagName        = "include"
	includeFlagShorthand   = "i"
	noGitignoreFlagName    = "no-gitignore"
	gitignoreDepthFlagName = "gitignore-depth"
	maxItemsFlagName       = "max-items"
	noLimitFlagName        = "no-limit"
	noFilesFlagName        = "no-files"
	styleFlagName          = "style"
	formatFlagName         = "format"
	jsonFileFlagName       = "json"
	textFileFlagName       = "txt"
	markdownFileFlagName   = "md"
	copyFlagName           = "copy"
	copyFlagShorthand      = "c"
	zipFlagName            = "zip"
	zipFlagShorthand       = "z"
	onlyFlagName           = "only"
	configFlagName         = "config"
	noConfigFlagName       = "no-config"
	initConfigFlagName     = "init-config"
	initUserConfigFlagName = "init-user-config"
	forceFlagName          = "force"
	verboseFlagName        = "verbose"
	verboseFlagShorthand   = "v"
	versionFlagName        = "version"

	maxDepthFlagDescription       = "maximum depth to descend (negative for unlimited)"
	allFlagDescription            = "show hidden files and directories"
	excludeFlagDescription        = "exclude entries matching a glob (repeatable)"
	includeFlagDescription        = "only show files matching a glob (repeatable)"
	noGitignoreFlagDescription    = "do not apply .gitignore rules"
	gitignoreDepthFlagDescription = "deepest directory whose .gitignore is read (negative for unlimited)"
	maxItemsFlagDescription       = "maximum entries listed per directory"
	noLimitFlagDescription        = "list every entry of each directory"
	noFilesFlagDescription        = "show directories only"
	styleFlagDescription          = "text style: icon or slash"
	formatFlagDescription         = "stdout format: text or json"
	jsonFileFlagDescription       = "write JSON output to a file"
	textFileFlagDescription       = "write text output to a file"
	markdownFileFlagDescription   = "write markdown output to a file"
	copyFlagDescription           = "copy the rendered output to the clipboard"
	zipFlagDescription            = "archive the files of the tree into a zip file"
	onlyFlagDescription           = "restrict the tree to a file and its ancestors (repeatable)"
	configFlagDescription         = "configuration file to load instead of " + utils.LocalConfigFileName
	noConfigFlagDescription       = "ignore configuration files"
	initConfigFlagDescription     = "write the default configuration to " + utils.LocalConfigFileName + " and exit"
	initUserConfigFlagDescription = "write the default configuration to ~/" + utils.GlobalConfigDirectoryName + "/" + utils.GlobalConfigFileName + " and exit"
	forceFlagDescription          = "overwrite an existing configuration with --init-config or --init-user-config"
	verboseFlagDescription        = "log debug details to stderr"
	versionFlagDescription        = "display application version"

	defaultPath     = "."
	defaultMaxItems = 20

	rootUse              = "gitree [paths...]"
	rootShortDescription = "print directory trees that respect .gitignore"
	rootLongDescription  = `gitree prints the directory tree of each path, honoring nested .gitignore files.
Use --include and --exclude to filter entries, --max-depth and --max-items to bound the output,
and --json, --txt or --md to write the result to files.`
	rootUsageExample = `  # Show the current directory two levels deep
  gitree --max-depth 2

  # Only Go files, written to tree.md
  gitree -i '*.go' --md tree

  # Copy a directories-only tree of src to the clipboard
  gitree --no-files -c src`

	versionTemplate                = "gitree version: %s\n"
	configurationWrittenTemplate   = "wrote configuration to %s\n"
	invalidFormatMessage           = "invalid format '%s' (expected %s or %s)"
	loadConfigurationErrorFormat   = "load configuration: %w"
	initConfigurationErrorFormat   = "initialize configuration: %w"
	configurationStyleErrorFormat  = "configuration style: %w"
	renderOutputErrorFormat        = "render output: %w"
	copyOutputErrorFormat          = "copy output: %w"
	archiveErrorFormat             = "archive tree: %w"
	workingDirectoryErrorFormat    = "unable to determine working directory: %w"
	errorAbsolutePathFormat        = "abs failed for '%s': %w"
	errorPathMissingFormat         = "path '%s' does not exist"
	errorStatFormat                = "stat failed for '%s': %w"
	errorNotDirectoryFormat        = "path '%s' is not a directory"
	errorNoValidPaths              = "no valid paths"
	logBuildingTreeMessage         = "building tree"
	logWroteOutputsMessage         = "wrote output files"
	logCopiedOutputMessage         = "copied output to clipboard"
	logArchivedTreeMessage         = "archived tree"
	logConfigurationSkippedMessage = "configuration files disabled"
)

// commandDependencies carries collaborators that tests replace.
type commandDependencies struct {
	logger           *zap.Logger
	logLevel         zap.AtomicLevel
	clipboard        clipboard.Copier
	workingDirectory string
	homeDirectory    string
}

// commandOptions holds raw flag values before they are merged with configuration.
type commandOptions struct {
	maxDepth        int
	showHidden      bool
	excludePatterns []string
	includePatterns []string
	noGitignore     bool
	gitignoreDepth  int
	maxItems        int
	noLimit         bool
	noFiles         bool
	style           output.Style
	format          string
	jsonPath        string
	textPath        string
	markdownPath    string
	copyToClipboard bool
	zipPath         string
	onlyPaths       []string
	configPath      string
	noConfig        bool
	initConfig      bool
	initUserConfig  bool
	forceInit       bool
	verbose         bool
	showVersion     bool
}

// runSettings is the effective configuration of one invocation.
type runSettings struct {
	treeOptions     tree.Options
	style           output.Style
	format          string
	copyToClipboard bool
}

// Execute runs the gitree application.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	rootCommand := createRootCommand(commandDependencies{
		logger:    logger,
		logLevel:  level,
		clipboard: clipboard.NewSystemClipboard(),
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand.Flags(), os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies commandDependencies) *cobra.Command {
	var options commandOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runRoot(command, arguments, &options, dependencies)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.IntVar(&options.maxDepth, maxDepthFlagName, tree.Unlimited, maxDepthFlagDescription)
	registerBooleanFlag(flagSet, &options.showHidden, allFlagName, allFlagShorthand, allFlagDescription)
	flagSet.StringArrayVarP(&options.excludePatterns, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	flagSet.StringArrayVarP(&options.includePatterns, includeFlagName, includeFlagShorthand, nil, includeFlagDescription)
	registerBooleanFlag(flagSet, &options.noGitignore, noGitignoreFlagName, "", noGitignoreFlagDescription)
	flagSet.IntVar(&options.gitignoreDepth, gitignoreDepthFlagName, tree.Unlimited, gitignoreDepthFlagDescription)
	flagSet.IntVar(&options.maxItems, maxItemsFlagName, defaultMaxItems, maxItemsFlagDescription)
	registerBooleanFlag(flagSet, &options.noLimit, noLimitFlagName, "", noLimitFlagDescription)
	registerBooleanFlag(flagSet, &options.noFiles, noFilesFlagName, "", noFilesFlagDescription)
	registerStyleFlag(flagSet, &options.style)
	flagSet.StringVar(&options.format, formatFlagName, types.FormatText, formatFlagDescription)
	flagSet.StringVar(&options.jsonPath, jsonFileFlagName, "", jsonFileFlagDescription)
	flagSet.StringVar(&options.textPath, textFileFlagName, "", textFileFlagDescription)
	flagSet.StringVar(&options.markdownPath, markdownFileFlagName, "", markdownFileFlagDescription)
	registerBooleanFlag(flagSet, &options.copyToClipboard, copyFlagName, copyFlagShorthand, copyFlagDescription)
	flagSet.StringVarP(&options.zipPath, zipFlagName, zipFlagShorthand, "", zipFlagDescription)
	flagSet.StringArrayVar(&options.onlyPaths, onlyFlagName, nil, onlyFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &options.noConfig, noConfigFlagName, "", noConfigFlagDescription)
	registerBooleanFlag(flagSet, &options.initConfig, initConfigFlagName, "", initConfigFlagDescription)
	registerBooleanFlag(flagSet, &options.initUserConfig, initUserConfigFlagName, "", initUserConfigFlagDescription)
	registerBooleanFlag(flagSet, &options.forceInit, forceFlagName, "", forceFlagDescription)
	registerBooleanFlag(flagSet, &options.verbose, verboseFlagName, verboseFlagShorthand, verboseFlagDescription)
	registerBooleanFlag(flagSet, &options.showVersion, versionFlagName, "", versionFlagDescription)
	rootCommand.MarkFlagsMutuallyExclusive(configFlagName, noConfigFlagName)
	rootCommand.MarkFlagsMutuallyExclusive(initConfigFlagName, initUserConfigFlagName)

	return rootCommand
}

func runRoot(command *cobra.Command, arguments []string, options *commandOptions, dependencies commandDependencies) error {
	logger := utils.LoggerOrNop(dependencies.logger)
	if options.verbose && dependencies.logLevel != (zap.AtomicLevel{}) {
		dependencies.logLevel.SetLevel(zap.DebugLevel)
	}

	if options.showVersion {
		_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
		return printError
	}

	workingDirectory := dependencies.workingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	if options.initConfig || options.initUserConfig {
		initTarget := config.InitTargetLocal
		if options.initUserConfig {
			initTarget = config.InitTargetGlobal
		}
		writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
			Target:           initTarget,
			Force:            options.forceInit,
			WorkingDirectory: workingDirectory,
			HomeDirectory:    dependencies.homeDirectory,
		})
		if initError != nil {
			return fmt.Errorf(initConfigurationErrorFormat, initError)
		}
		_, printError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenTemplate, writtenPath)
		return printError
	}

	var applicationConfiguration config.ApplicationConfiguration
	if options.noConfig {
		logger.Debug(logConfigurationSkippedMessage)
	} else {
		loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
			WorkingDirectory: workingDirectory,
			ExplicitFilePath: options.configPath,
			HomeDirectory:    dependencies.homeDirectory,
		})
		if loadError != nil {
			return fmt.Errorf(loadConfigurationErrorFormat, loadError)
		}
		applicationConfiguration = loadedConfiguration
	}

	settings, settingsError := resolveSettings(command, options, applicationConfiguration, workingDirectory)
	if settingsError != nil {
		return settingsError
	}
	settings.treeOptions.Logger = logger

	paths := arguments
	if len(paths) == 0 {
		paths = []string{defaultPath}
	}
	validatedPaths, pathValidationError := resolveAndValidatePaths(workingDirectory, paths)
	if pathValidationError != nil {
		return pathValidationError
	}

	trees, buildError := buildTrees(command.Context(), validatedPaths, settings.treeOptions, logger)
	if buildError != nil {
		return buildError
	}

	return dispatchOutput(command, trees, options, settings, dependencies.clipboard, workingDirectory, logger)
}

// resolveSettings layers defaults, configuration and explicitly set flags.
func resolveSettings(command *cobra.Command, options *commandOptions, configuration config.ApplicationConfiguration, workingDirectory string) (runSettings, error) {
	settings := runSettings{
		treeOptions: tree.DefaultOptions(),
		style:       output.StyleIconPrefix,
		format:      types.FormatText,
	}
	settings.treeOptions.MaxItems = defaultMaxItems

	treeConfiguration := configuration.Tree
	if treeConfiguration.MaxDepth != nil {
		settings.treeOptions.MaxDepth = *treeConfiguration.MaxDepth
	}
	if treeConfiguration.ShowHidden != nil {
		settings.treeOptions.ShowHidden = *treeConfiguration.ShowHidden
	}
	if treeConfiguration.UseGitignore != nil {
		settings.treeOptions.RespectGitignore = *treeConfiguration.UseGitignore
	}
	if treeConfiguration.GitignoreDepth != nil {
		settings.treeOptions.GitignoreDepth = *treeConfiguration.GitignoreDepth
	}
	if treeConfiguration.MaxItems != nil {
		settings.treeOptions.MaxItems = *treeConfiguration.MaxItems
	}
	if treeConfiguration.NoLimit != nil && *treeConfiguration.NoLimit {
		settings.treeOptions.MaxItems = tree.Unlimited
	}
	if treeConfiguration.NoFiles != nil {
		settings.treeOptions.NoFiles = *treeConfiguration.NoFiles
	}
	if configuration.Output.Format != "" {
		settings.format = strings.ToLower(strings.TrimSpace(configuration.Output.Format))
	}
	if configuration.Output.Style != "" {
		parsedStyle, styleError := output.ParseStyle(configuration.Output.Style)
		if styleError != nil {
			return runSettings{}, fmt.Errorf(configurationStyleErrorFormat, styleError)
		}
		settings.style = parsedStyle
	}
	if configuration.Output.Copy != nil {
		settings.copyToClipboard = *configuration.Output.Copy
	}

	flags := command.Flags()
	if flags.Changed(maxDepthFlagName) {
		settings.treeOptions.MaxDepth = options.maxDepth
	}
	if flags.Changed(allFlagName) {
		settings.treeOptions.ShowHidden = options.showHidden
	}
	if flags.Changed(noGitignoreFlagName) {
		settings.treeOptions.RespectGitignore = !options.noGitignore
	}
	if flags.Changed(gitignoreDepthFlagName) {
		settings.treeOptions.GitignoreDepth = options.gitignoreDepth
	}
	if flags.Changed(maxItemsFlagName) {
		settings.treeOptions.MaxItems = options.maxItems
	}
	if flags.Changed(noLimitFlagName) && options.noLimit {
		settings.treeOptions.MaxItems = tree.Unlimited
	}
	if flags.Changed(noFilesFlagName) {
		settings.treeOptions.NoFiles = options.noFiles
	}
	if flags.Changed(styleFlagName) {
		settings.style = options.style
	}
	if flags.Changed(formatFlagName) {
		settings.format = strings.ToLower(strings.TrimSpace(options.format))
	}
	if flags.Changed(copyFlagName) {
		settings.copyToClipboard = options.copyToClipboard
	}

	settings.treeOptions.ExcludePatterns = utils.DeduplicatePatterns(append(append([]string{}, treeConfiguration.Exclude...), options.excludePatterns...))
	settings.treeOptions.IncludePatterns = utils.DeduplicatePatterns(append(append([]string{}, treeConfiguration.Include...), options.includePatterns...))

	if len(options.onlyPaths) > 0 {
		whitelistPaths := make([]string, 0, len(options.onlyPaths))
		for _, onlyPath := range options.onlyPaths {
			whitelistPaths = append(whitelistPaths, absoluteFrom(workingDirectory, onlyPath))
		}
		settings.treeOptions.Whitelist = tree.NewWhitelist(whitelistPaths)
	}

	switch settings.format {
	case types.FormatText, types.FormatJSON:
	default:
		return runSettings{}, fmt.Errorf(invalidFormatMessage, settings.format, types.FormatText, types.FormatJSON)
	}
	return settings, nil
}

// buildTrees builds every root concurrently and returns the trees in argument order.
func buildTrees(ctx context.Context, roots []types.ValidatedPath, options tree.Options, logger *zap.Logger) ([]*types.TreeNode, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	trees := make([]*types.TreeNode, len(roots))
	group, groupContext := errgroup.WithContext(ctx)
	builder := tree.NewBuilder(options)
	for rootIndex, root := range roots {
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			logger.Debug(logBuildingTreeMessage, zap.String("root", root.AbsolutePath))
			trees[rootIndex] = builder.Build(root.AbsolutePath)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return trees, nil
}

// dispatchOutput sends the rendered trees to files, the clipboard, an archive,
// or stdout when none of those were requested.
func dispatchOutput(command *cobra.Command, trees []*types.TreeNode, options *commandOptions, settings runSettings, copier clipboard.Copier, workingDirectory string, logger *zap.Logger) error {
	destinations := output.Destinations{
		JSONPath:     options.jsonPath,
		TextPath:     options.textPath,
		MarkdownPath: options.markdownPath,
	}.Normalize()

	rendered, renderError := renderTrees(trees, settings.format, settings.style)
	if renderError != nil {
		return fmt.Errorf(renderOutputErrorFormat, renderError)
	}

	if !destinations.IsEmpty() {
		ctx := command.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if writeError := output.WriteOutputs(ctx, trees, destinations, settings.style); writeError != nil {
			return writeError
		}
		logger.Debug(logWroteOutputsMessage,
			zap.String("json", destinations.JSONPath),
			zap.String("text", destinations.TextPath),
			zap.String("markdown", destinations.MarkdownPath))
	}

	if settings.copyToClipboard {
		if copier == nil {
			return fmt.Errorf(copyOutputErrorFormat, clipboard.ErrUnavailable)
		}
		if copyError := copier.Copy(rendered); copyError != nil {
			return fmt.Errorf(copyOutputErrorFormat, copyError)
		}
		logger.Debug(logCopiedOutputMessage)
	}

	if options.zipPath != "" {
		archivePath := archive.NormalizeArchivePath(absoluteFrom(workingDirectory, options.zipPath))
		archivedCount, archiveError := archive.WriteZip(archivePath, trees)
		if archiveError != nil {
			return fmt.Errorf(archiveErrorFormat, archiveError)
		}
		logger.Debug(logArchivedTreeMessage, zap.String("path", archivePath), zap.Int("files", archivedCount))
	}

	if settings.copyToClipboard || !destinations.IsEmpty() || options.zipPath != "" {
		return nil
	}
	_, printError := fmt.Fprintln(command.OutOrStdout(), rendered)
	return printError
}

func renderTrees(trees []*types.TreeNode, format string, style output.Style) (string, error) {
	if format == types.FormatJSON {
		return output.FormatJSONForest(trees)
	}
	return output.FormatTextForest(trees, style), nil
}

// absoluteFrom resolves inputPath against baseDirectory, or against the
// process working directory when baseDirectory is empty.
func absoluteFrom(baseDirectory string, inputPath string) string {
	if filepath.IsAbs(inputPath) || baseDirectory == "" {
		return inputPath
	}
	return filepath.Join(baseDirectory, inputPath)
}

// resolveAndValidatePaths converts input paths to absolute form, drops
// duplicates, and requires each to be an existing directory.
func resolveAndValidatePaths(workingDirectory string, inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(absoluteFrom(workingDirectory, inputPath))
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf(errorNotDirectoryFormat, inputPath)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: true})
	}
	if len(result) == 0 {
		return nil, errors.New(errorNoValidPaths)
	}
	return result, nil
}
