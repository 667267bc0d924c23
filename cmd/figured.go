package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/harmonet/constants"
	"github.com/jsphweid/harmonet/midi"
	"github.com/jsphweid/harmonet/model"
	"github.com/jsphweid/harmonet/rules"
	"github.com/spf13/cobra"
)

var figuredFlags struct {
	key      string
	mode     string
	parts    int
	maxPitch string
	count    int
	uniform  bool
	seed     int64
	all      bool
	limit    int
	midi     bool
}

func init() {
	f := figuredCmd.Flags()
	f.StringVarP(&figuredFlags.key, "key", "k", "C", "tonic of the key")
	f.StringVarP(&figuredFlags.mode, "mode", "m", "major", "mode of the key")
	f.IntVarP(&figuredFlags.parts, "parts", "p", constants.DefaultNumParts, "number of parts, bass included (2 to 6)")
	f.StringVar(&figuredFlags.maxPitch, "max-pitch", constants.DefaultMaxPitch, "highest pitch any part may sing")
	f.IntVarP(&figuredFlags.count, "count", "c", 1, "random progressions to print")
	f.BoolVar(&figuredFlags.uniform, "uniform", false, "draw uniformly over complete progressions")
	f.Int64Var(&figuredFlags.seed, "seed", 0, "random seed (0 picks one)")
	f.BoolVar(&figuredFlags.all, "all", false, "print every progression instead of random ones")
	f.IntVar(&figuredFlags.limit, "limit", -1, "with --all, stop after this many progressions")
	f.BoolVar(&figuredFlags.midi, "midi", false, "write the printed progressions as MIDI files to the output directory")
	rootCmd.AddCommand(figuredCmd)
}

var figuredCmd = &cobra.Command{
	Use:   "figured <bass[:figures]>...",
	Short: "Realizes a figured bass line",
	Long: `Voices a figured bass line under the voice leading rules. Each event is a
bass pitch optionally followed by a colon and its figures, e.g. C#3:6 or E3:4,2.`,
	Example: `  harmonet figured --key B B2 C#3:6 D#3:6
  harmonet figured --key a --mode minor --all --limit 10 "A2 G#2:6 A2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := rules.LoadOrDefault(rulesPath)
		if err != nil {
			return err
		}
		body := model.FiguredRequestBody{
			Key:      figuredFlags.key,
			Mode:     figuredFlags.mode,
			Line:     strings.Join(args, " "),
			NumParts: figuredFlags.parts,
			MaxPitch: figuredFlags.maxPitch,
			Count:    figuredFlags.count,
			Uniform:  figuredFlags.uniform,
			Seed:     figuredFlags.seed,
		}
		request := figuredRequest
		if figuredFlags.all {
			request = realizeFigured
		}
		res, err := request(cmd.Context(), body, r)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s solutions\n", res.response.NumSolutions)

		progressions := res.progressions
		if figuredFlags.all {
			progressions = res.realization.Collect(figuredFlags.limit)
		}
		for _, p := range progressions {
			fmt.Fprintln(out, strings.Join(p.Keys(), " | "))
		}

		if figuredFlags.midi {
			for _, p := range progressions {
				s, err := midi.FromVoices(res.response.ID, p.Voices())
				if err != nil {
					return err
				}
				path, err := midi.Save(constants.GetOutDir(), s)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", path)
			}
		}
		return nil
	},
}
