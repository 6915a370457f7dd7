package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newContextCmd(params *rootParams) *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "context <user-id> <query...>",
		Short: "Build the grounding context block for an answer generator",
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

			grounding, err := m.Grounding(ctx, userID, conversationID, query)
			if err != nil {
				return err
			}
			if grounding == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no grounding context available")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), grounding)

			return nil
		},
	}

	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "Conversation id whose short-term memories to include")

	return cmd
}
