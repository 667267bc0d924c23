package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/harmonet/constants"
	"github.com/jsphweid/harmonet/midi"
	"github.com/jsphweid/harmonet/model"
	"github.com/jsphweid/harmonet/network"
	"github.com/jsphweid/harmonet/pitch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var realizeFlags struct {
	scale     string
	spec      string
	node      string
	min       string
	max       string
	direction string
	midi      bool
}

func init() {
	f := realizeCmd.Flags()
	f.StringVarP(&realizeFlags.scale, "scale", "s", "major", "named scale")
	f.StringVar(&realizeFlags.spec, "spec", "", "network YAML file, used instead of --scale")
	f.StringVarP(&realizeFlags.node, "node", "n", "1", "step or terminus the tonic sits on")
	f.StringVar(&realizeFlags.min, "min", "", "lowest pitch")
	f.StringVar(&realizeFlags.max, "max", "", "highest pitch")
	f.StringVarP(&realizeFlags.direction, "direction", "d", "", "bi, ascending or descending")
	f.BoolVar(&realizeFlags.midi, "midi", false, "also write a MIDI file to the output directory")
	rootCmd.AddCommand(realizeCmd)
}

var realizeCmd = &cobra.Command{
	Use:   "realize <pitch>",
	Short: "Realizes a scale",
	Long: `Realizes a scale network from a reference pitch. Without bounds one cycle
is realized; with --min and --max every pitch in range is.`,
	Example: `  harmonet realize c4
  harmonet realize c# --node 7
  harmonet realize a3 --scale melodic-minor --min a3 --max a5 --direction descending`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := model.RealizeRequestBody{
			Tonic:     args[0],
			Scale:     realizeFlags.scale,
			Node:      realizeFlags.node,
			Min:       realizeFlags.min,
			Max:       realizeFlags.max,
			Direction: realizeFlags.direction,
		}

		var (
			res model.RealizeResponse
			err error
		)
		if realizeFlags.spec != "" {
			var net *network.Network
			net, err = network.LoadSpec(realizeFlags.spec)
			if err != nil {
				return err
			}
			res, err = realizeNetwork(net, body)
		} else {
			res, err = realizeRequest(body)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, strings.Join(res.Pitches, " "))
		logger.Debug("realized", zap.Strings("nodes", res.NodeIDs))

		if realizeFlags.midi {
			pitches, err := pitch.ParseAll(res.Pitches)
			if err != nil {
				return err
			}
			s, err := midi.FromPitches(args[0]+" "+realizeFlags.scale, pitches)
			if err != nil {
				return err
			}
			path, err := midi.Save(constants.GetOutDir(), s)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s\n", path)
		}
		return nil
	},
}
