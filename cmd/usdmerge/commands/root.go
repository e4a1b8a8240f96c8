package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/usdtools/usdmerge/internal/version"
	"github.com/usdtools/usdmerge/pkg/config"
	"github.com/usdtools/usdmerge/pkg/errors"
	"github.com/usdtools/usdmerge/pkg/filesystem"
	"github.com/usdtools/usdmerge/pkg/logging"
	"github.com/usdtools/usdmerge/pkg/merge"
	"github.com/usdtools/usdmerge/pkg/mergetool"
	"github.com/usdtools/usdmerge/pkg/paths"
	"github.com/usdtools/usdmerge/pkg/plugins"
	"github.com/usdtools/usdmerge/pkg/types"
	"github.com/usdtools/usdmerge/pkg/ui/output"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "usdmerge <usd-repo>",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args[0])
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	// One boolean flag per registered plugin, in manifest order
	if all, err := plugins.All(); err == nil {
		for _, p := range all {
			rootCmd.Flags().Bool(p.Name, false, p.About)
		}
	}

	rootCmd.AddCommand(newPluginsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// runMerge validates the destination and merges every plugin whose flag
// was set, in registry order. Recoverable per-file merge failures do not
// affect the exit status.
func runMerge(cmd *cobra.Command, destArg string) error {
	logger := logging.GetLogger("commands.merge")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fsys := filesystem.NewOS()

	destRoot, err := paths.ValidateDestination(fsys, destArg)
	if err != nil {
		return err
	}

	sourceRoot, err := paths.SourceRoot(cfg.SourceRoot)
	if err != nil {
		return err
	}

	helper, found := mergetool.Detect(cfg.MergeTool)
	if !found {
		if !cfg.FallbackToCopy {
			return errors.Newf(errors.ErrHelperMissing,
				"merge tool %q not found and fallback_to_copy is disabled", cfg.MergeTool)
		}
		helper = nil
	}

	merger := merge.New(merge.Options{
		FS:         fsys,
		SourceRoot: sourceRoot,
		DestRoot:   destRoot,
		Helper:     helper,
		Reporter:   output.NewReporter(cmd.OutOrStdout()),
	})

	all, err := plugins.All()
	if err != nil {
		return err
	}

	total := &types.MergeResult{}
	for _, plugin := range all {
		selected, err := cmd.Flags().GetBool(plugin.Name)
		if err != nil || !selected {
			continue
		}
		res, mergeErr := merger.MergePlugin(plugin)
		total.Merge(res)
		if mergeErr != nil {
			return mergeErr
		}
	}

	if total.HasFailures() {
		logger.Warn().Strs("failed", total.Failed).Msg("Some files could not be merged")
	}

	return nil
}
