package cmd

import (
	"context"

	"github.com/jsphweid/harmonet/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose   bool
	rulesPath string
	logger    = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", constants.GetRulesPath(), "voice leading rules YAML (defaults to strict four-part rules)")
}

var rootCmd = &cobra.Command{
	Use:          "harmonet",
	Short:        "Scale networks and figured bass realization",
	Long:         `harmonet realizes scales from interval networks, finds keys for pitch collections and voices figured bass lines.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	// NOTE: CheckErr exits, so flush first
	_ = logger.Sync()
	cobra.CheckErr(err)
}
