package homesync

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/homesync/pkg/sync"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			dir, err := a.resolveRepository(opts.repo)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, MsgRepository, dir)

			repo, err := a.engine.Repo()
			if err != nil {
				return err
			}
			if st, err := repo.Status(); err != nil {
				fmt.Fprintf(a.out, MsgWorkingTree, MsgNotGit)
			} else {
				fmt.Fprintf(a.out, MsgBranch, st.Branch)
				fmt.Fprintf(a.out, MsgWorkingTree, describeTree(st.Clean, len(st.Changes)))
			}

			statuses, err := a.engine.LinkStatus()
			if err != nil {
				return err
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(statusRows(statuses)).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, table)
			return nil
		},
	}
}

func describeTree(clean bool, changes int) string {
	if clean {
		return "clean"
	}
	return fmt.Sprintf("%d changed", changes)
}

func statusRows(statuses []sync.PathStatus) [][]string {
	rows := [][]string{{"Path", "Home", "In repository"}}
	for _, s := range statuses {
		inRepo := "no"
		if s.InRepository {
			inRepo = "yes"
		}
		rows = append(rows, []string{s.Path.RelativePath(), string(s.State), inRepo})
	}
	return rows
}
