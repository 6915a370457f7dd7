package cmd

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/habiliai/caremem/memory"
)

func newRememberCmd(params *rootParams) *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "remember <user-id> <utterance...>",
		Short: "Run an utterance through the memory pipeline",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			userID := args[0]
			utterance := strings.Join(args[1:], " ")

			m, err := params.newMemory(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			record, err := m.Process(ctx, userID, conversationID, memory.SourceConversation, utterance)
			if err != nil {
				return err
			}
			if record == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing worth remembering")
				return nil
			}

			out, err := yaml.Marshal(record)
			if err != nil {
				return errors.Wrapf(err, "failed to render record")
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))

			return nil
		},
	}

	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "default", "Conversation id for short-term memories")

	return cmd
}
