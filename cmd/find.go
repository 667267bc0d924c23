package cmd

import (
	"fmt"

	"github.com/jsphweid/harmonet/model"
	"github.com/spf13/cobra"
)

var findFlags struct {
	scale   string
	results int
}

func init() {
	findCmd.Flags().StringVarP(&findFlags.scale, "scale", "s", "major", "named scale to match against")
	findCmd.Flags().IntVarP(&findFlags.results, "results", "r", 4, "number of keys to list")
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:     "find <pitch>...",
	Short:   "Finds the keys that best hold a set of pitches",
	Example: `  harmonet find g a b d f#`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := findRequest(model.FindRequestBody{
			Pitches: args,
			Scale:   findFlags.scale,
			Results: findFlags.results,
		})
		if err != nil {
			return err
		}
		for _, r := range res.Results {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", r.Count, r.Key)
		}
		return nil
	},
}
