package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/habiliai/caremem"
	"github.com/habiliai/caremem/config"
	"github.com/habiliai/caremem/internal/mylog"
)

type rootParams struct {
	ProfileFile string
	DBPath      string
}

func newRootCmd() *cobra.Command {
	params := &rootParams{}

	cmd := &cobra.Command{
		Use:   "caremem",
		Short: "Conversational memory for caregiver support",
	}

	cmd.PersistentFlags().StringVarP(&params.ProfileFile, "profile", "f", "", "YAML profile file")
	cmd.PersistentFlags().StringVar(&params.DBPath, "db", "caremem.db", "SQLite database path")

	cmd.AddCommand(
		newRememberCmd(params),
		newRecallCmd(params),
		newContextCmd(params),
	)

	return cmd
}

// newMemory assembles a CareMemory from the profile file (or defaults plus
// environment) with the SQLite backend, so memories survive between
// invocations.
func (p *rootParams) newMemory(ctx context.Context) (*caremem.CareMemory, error) {
	profile := config.NewProfile()
	if p.ProfileFile != "" {
		var err error
		profile, err = config.LoadProfileFromFile(p.ProfileFile)
		if err != nil {
			return nil, err
		}
	}

	profile.Store.SqliteEnabled = true
	if profile.Store.SqlitePath == "" || profile.Store.SqlitePath == ":memory:" {
		profile.Store.SqlitePath = p.DBPath
	}

	logger := mylog.NewLogger(profile.Log.LogLevel, profile.Log.LogHandler)

	return caremem.NewCareMemory(ctx,
		caremem.WithProfile(profile),
		caremem.WithLogger(logger),
	)
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}
