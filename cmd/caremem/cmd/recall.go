package cmd

import (
	"fmt"
	"strings"

	"github.com/mokiat/gog"
	"github.com/spf13/cobra"

	"github.com/habiliai/caremem/store"
)

func newRecallCmd(params *rootParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall <user-id> <query...>",
		Short: "Recall a user's stored memories relevant to a query",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			userID := args[0]
			query := strings.Join(args[1:], " ")

			m, err := params.newMemory(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			results, err := m.Recall(ctx, userID, query)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no memories recalled")
				return nil
			}

			lines := gog.Map(results, func(r store.SearchResult) string {
				return fmt.Sprintf("%.3f  %s", r.Score, r.Record.Sentence())
			})
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))

			return nil
		},
	}

	return cmd
}
