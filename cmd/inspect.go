package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/harmonet/chord"
	"github.com/jsphweid/harmonet/midi"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/jsphweid/harmonet/scale"
	"github.com/jsphweid/harmonet/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var inspectFlags struct {
	scale   string
	results int
	maxNum  int
	chords  bool
}

func init() {
	f := inspectCmd.Flags()
	f.StringVarP(&inspectFlags.scale, "scale", "s", "major", "named scale to match against")
	f.IntVarP(&inspectFlags.results, "results", "r", 3, "keys to list per file")
	f.IntVar(&inspectFlags.maxNum, "max", 0, "stop after this many files (0 for all)")
	f.BoolVar(&inspectFlags.chords, "chords", false, "also print every chord")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file or dir>",
	Short: "Estimates the key of MIDI files",
	Long: `Reads every chord of a MIDI file, or of each MIDI file under a directory,
and ranks the keys that hold the most of its pitch classes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := scale.Named(inspectFlags.scale)
		if err != nil {
			return err
		}
		paths, err := util.GatherAllMidiPaths(args[0], inspectFlags.maxNum)
		if err != nil {
			return err
		}
		for _, path := range paths {
			if err := inspect(cmd.OutOrStdout(), a, path); err != nil {
				// NOTE: plenty of MIDI files in the wild are malformed
				logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
			}
		}
		return nil
	},
}

func inspect(out io.Writer, a *scale.Abstract, path string) error {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	chords := chord.FromSMF(s)
	pitches, counts := chord.PitchClasses(chords)
	fmt.Fprintf(out, "%s: %d chords, %d pitch classes\n", path, len(chords), len(pitches))
	if inspectFlags.chords {
		for _, c := range chords {
			fmt.Fprintf(out, "  %8dms %s\n", c.Offset, chord.Key(c.Notes))
		}
	}
	if len(pitches) == 0 {
		return nil
	}
	fmt.Fprintf(out, "  %s\n", pitchClassSummary(pitches, counts))

	matches, err := a.Find(pitches, inspectFlags.results)
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Fprintf(out, "  %d/%d\t%s\n", m.Count, len(pitches), m.Scale.Name())
	}
	return nil
}

// pitchClassSummary lists how many chords hold each pitch class, e.g.
// "C:2 E:1 G:1".
func pitchClassSummary(pitches []pitch.Pitch, counts map[int]int) string {
	parts := make([]string, 0, len(pitches))
	for _, p := range pitches {
		parts = append(parts, fmt.Sprintf("%s:%d", p.Name(), counts[p.PitchClass()]))
	}
	return strings.Join(parts, " ")
}
