package homesync

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/homesync/internal/version"
	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/state"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "homesync",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", "", MsgFlagRepo)
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, MsgFlagYes)
	rootCmd.Flags().BoolVar(&opts.push, "push", false, MsgFlagPush)
	rootCmd.Flags().BoolVar(&opts.pull, "pull", false, MsgFlagPull)
	rootCmd.MarkFlagsMutuallyExclusive("push", "pull")

	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// runRoot handles --push and --pull, or runs the interactive menu. Only a
// cleanly finished interactive session clears first_run and writes the
// state file.
func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	logger := logging.GetLogger("cmd.root")

	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	switch {
	case opts.push:
		if _, err := a.resolveRepository(opts.repo); err != nil {
			return err
		}
		return a.engine.Push(ctx)
	case opts.pull:
		if _, err := a.resolveRepository(opts.repo); err != nil {
			return err
		}
		if !a.engine.Pull(ctx) {
			return errors.New(errors.ErrCommandFailed, MsgPullFailed)
		}
		return nil
	}

	if opts.repo != "" {
		if _, err := a.resolveRepository(opts.repo); err != nil {
			return err
		}
	}

	m, err := a.mainMenu()
	if err != nil {
		return err
	}

	err = m.Run(ctx, a.console, a.out)
	if errors.IsErrorCode(err, errors.ErrSyncAborted) {
		logger.Info().Msg("Sync aborted by user")
		fmt.Fprint(a.out, pterm.Warning.Sprintln(MsgAborted))
		return nil
	}
	if err != nil {
		return err
	}

	a.state.Set(state.KeyFirstRun, false)
	return a.state.Flush()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
