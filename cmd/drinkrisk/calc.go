package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ja7ad/drinkrisk/pkg/risk"
	"github.com/ja7ad/drinkrisk/pkg/session"
	"github.com/ja7ad/drinkrisk/pkg/types"
)

func newCalcCmd(o *opts) *cobra.Command {
	var (
		units  int
		toMax  bool
		pretty bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the risk metrics for a number of drinks",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := newSession(cmd.Flags(), o)
			if err != nil {
				return err
			}
			if toMax {
				sess.Max()
			} else {
				sess.SetUnits(units)
			}
			st := sess.State()
			out := cmd.OutOrStdout()

			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			case pretty:
				printSummary(out, st)
			default:
				printCsvLike(out, st)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&units, "units", "n", 0, "number of drinks (clamped to [0, max])")
	cmd.Flags().BoolVar(&toMax, "max", false, "use the maximum number of drinks")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "format output as a table instead of a CSV-like line")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full state as JSON")
	return cmd
}

func printSummary(w io.Writer, st session.State) {
	in, m := st.Inputs, st.Metrics

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Policy:\t%s\n", st.Policy)
	fmt.Fprintf(tw, "Body mass:\t%.1f kg\n", in.BodyMassKg)
	fmt.Fprintf(tw, "Drink:\t%.0f mL @ %.1f%%\n", in.DrinkVolumeMl, in.ABVPercent)
	if in.Sex != risk.SexUnset {
		fmt.Fprintf(tw, "Coefficient:\t%.2f (%s)\n", m.Coefficient, in.Sex)
	} else {
		fmt.Fprintf(tw, "Coefficient:\t%.2f\n", m.Coefficient)
	}
	fmt.Fprintf(tw, "Reference dose:\t%s\n", types.Grams(m.LethalTargetGrams).Humanized())
	fmt.Fprintln(tw, "\t")
	fmt.Fprintf(tw, "Per unit:\t%s\n", types.Grams(m.GramsPerUnit).Humanized())
	fmt.Fprintf(tw, "Units:\t%d / %d\n", m.Units, m.MaxUnits)
	fmt.Fprintf(tw, "Total:\t%s\n", types.Grams(m.TotalGrams).Humanized())
	pm := types.PerMille(m.PerMille)
	fmt.Fprintf(tw, "Estimate:\t%s (%.3f%% BAC)\n", pm, pm.Percent())
	fmt.Fprintf(tw, "Risk:\t%.0f%% (%s)\n", m.PercentToThreshold, m.Severity)
	tw.Flush()

	if st.Alert {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "STOP: reference dose reached")
	}
}

func printCsvLike(w io.Writer, st session.State) {
	m := st.Metrics
	fmt.Fprintln(w, "# units, max_units, g_per_unit, total_g, per_mille, pct, severity, crossed")
	fmt.Fprintf(w, "%d, %d, %.3f, %.3f, %.4f, %.2f, %s, %t\n",
		m.Units, m.MaxUnits, m.GramsPerUnit, m.TotalGrams, m.PerMille, m.PercentToThreshold, m.Severity, m.Crossed)
}
