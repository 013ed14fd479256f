package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ja7ad/drinkrisk/pkg/risk"
	"github.com/ja7ad/drinkrisk/pkg/session"
	"github.com/ja7ad/drinkrisk/pkg/types"
	"github.com/ja7ad/drinkrisk/pkg/util"
)

type row struct {
	Units        int           `json:"units"`
	GramsTotal   float64       `json:"total_g"`
	PerMille     float64       `json:"per_mille"`
	Percent      float64       `json:"pct"`
	Severity     risk.Severity `json:"severity"`
	Crossed      bool          `json:"crossed"`
	GramsPerUnit float64       `json:"g_per_unit"`
}

func newSweepCmd(o *opts) *cobra.Command {
	var (
		limit    int
		pretty   bool
		csvPath  string
		jsonPath string
		htmlPath string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Tabulate the metrics for every unit count from 0 to the maximum",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be > 0")
			}
			_, sess, err := newSession(cmd.Flags(), o)
			if err != nil {
				return err
			}

			rows := sweep(sess, limit)
			st := sess.State()
			out := cmd.OutOrStdout()

			if pretty {
				printTable(out, rows)
			} else {
				fmt.Fprintln(out, "# units, total_g, per_mille, pct, severity, crossed")
				for _, r := range rows {
					fmt.Fprintf(out, "%d, %.3f, %.4f, %.2f, %s, %t\n",
						r.Units, r.GramsTotal, r.PerMille, r.Percent, r.Severity, r.Crossed)
				}
			}

			if csvPath != "" {
				if err := writeFile(csvPath, func(w io.Writer) error { return writeCSV(w, rows) }); err != nil {
					slog.Error("write csv", "err", err)
				}
			}
			if jsonPath != "" {
				if err := writeFile(jsonPath, func(w io.Writer) error { return writeJSON(w, rows) }); err != nil {
					slog.Error("write json", "err", err)
				}
			}
			if htmlPath != "" {
				if err := writeFile(htmlPath, func(w io.Writer) error { return writeHTML(w, st, rows) }); err != nil {
					slog.Error("write html", "err", err)
				}
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "sweep (%s policy, %d of %d+1 rows):\n", st.Policy, len(rows), st.Metrics.MaxUnits)
			fmt.Fprintf(out, "- per unit:        %.2f g\n", st.Metrics.GramsPerUnit)
			fmt.Fprintf(out, "- reference dose:  %.2f g\n", st.Metrics.LethalTargetGrams)
			fmt.Fprintf(out, "- max units:       %d\n", st.Metrics.MaxUnits)
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum number of rows")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "format output as a table instead of CSV-like lines")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write rows to CSV file")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write rows to JSON file")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write rows and summary to HTML file")
	return cmd
}

// sweep walks the session counter from 0 to its cap, at most limit rows,
// and leaves the counter reset.
func sweep(sess *session.Session, limit int) []row {
	maxUnits := sess.State().Metrics.MaxUnits
	n := min(maxUnits+1, limit)

	rows := make([]row, 0, n)
	for i := 0; i < n; i++ {
		sess.SetUnits(i)
		m := sess.State().Metrics
		rows = append(rows, row{
			Units:        m.Units,
			GramsTotal:   m.TotalGrams,
			PerMille:     m.PerMille,
			Percent:      m.PercentToThreshold,
			Severity:     m.Severity,
			Crossed:      m.Crossed,
			GramsPerUnit: m.GramsPerUnit,
		})
	}
	sess.Reset()
	return rows
}

func printTable(w io.Writer, rows []row) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UNITS\tTOTAL (g)\t‰\tPCT\tSEVERITY\tCROSSED")
	fmt.Fprintln(tw, "-----\t---------\t-\t---\t--------\t-------")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%.1f\t%.2f\t%.1f%%\t%s\t%t\n",
			r.Units, r.GramsTotal, r.PerMille, r.Percent, r.Severity, r.Crossed)
	}
	tw.Flush()
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(w io.Writer, rows []row) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"units", "g_per_unit", "total_g", "per_mille", "pct", "severity", "crossed"})
	for _, r := range rows {
		_ = cw.Write([]string{
			strconv.Itoa(r.Units),
			util.FmtFloat(r.GramsPerUnit),
			util.FmtFloat(r.GramsTotal),
			util.FmtFloat(r.PerMille),
			util.FmtFloat(r.Percent),
			r.Severity.String(),
			strconv.FormatBool(r.Crossed),
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, rows []row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeHTML(w io.Writer, st session.State, rows []row) error {
	type view struct {
		State session.State
		Rows  []row
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view{State: st, Rows: rows}); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

var tpl = template.Must(template.New("rep").Funcs(template.FuncMap{
	"color": func(s risk.Severity) string {
		switch s {
		case risk.SeverityCritical:
			return "#dc2626"
		case risk.SeverityElevated:
			return "#f59e0b"
		default:
			return "#22c55e"
		}
	},
	"bac": func(perMille float64) string {
		return strconv.FormatFloat(types.PerMille(perMille).Percent(), 'f', 3, 64)
	},
}).Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>Drink Risk Report</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px}
h1,h2{margin:0 0 8px}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #ddd;padding:6px 8px;text-align:right}
th:first-child,td:first-child{text-align:left}
ul{margin:6px 0 14px;padding-left:20px}
.small{color:#555}
.bar{height:10px;border-radius:4px}
</style>

<h1>Drink Risk Report</h1>

<p class="small">
Policy: {{.State.Policy}} &nbsp;|&nbsp;
Reference dose: {{printf "%.1f" .State.Metrics.LethalTargetGrams}} g &nbsp;|&nbsp;
Max units: {{.State.Metrics.MaxUnits}}
</p>

<h2>Inputs</h2>
<ul>
<li>Body mass: {{printf "%.1f" .State.Inputs.BodyMassKg}} kg</li>
<li>Drink: {{printf "%.0f" .State.Inputs.DrinkVolumeMl}} mL @ {{printf "%.1f" .State.Inputs.ABVPercent}}%</li>
<li>Coefficient r: {{printf "%.2f" .State.Metrics.Coefficient}}{{with .State.Inputs.Sex.String}} ({{.}}){{end}}</li>
<li>Per unit: {{printf "%.2f" .State.Metrics.GramsPerUnit}} g</li>
</ul>

<h2>Per unit count</h2>
<table>
<thead>
<tr><th>units</th><th>total g</th><th>‰</th><th>% BAC</th><th>pct</th><th></th><th>severity</th><th>crossed</th></tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
<td>{{.Units}}</td>
<td>{{printf "%.1f" .GramsTotal}}</td>
<td>{{printf "%.2f" .PerMille}}</td>
<td>{{bac .PerMille}}</td>
<td>{{printf "%.1f" .Percent}}%</td>
<td style="width:30%"><div class="bar" style="width:{{printf "%.1f" .Percent}}%;background:{{color .Severity}}"></div></td>
<td>{{.Severity}}</td>
<td>{{if .Crossed}}STOP{{end}}</td>
</tr>
{{end}}
</tbody>
</table>
<p class="small">Point estimate without elimination over time. Not medical advice.</p>
</html>`))
