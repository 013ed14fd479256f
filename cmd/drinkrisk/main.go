package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ja7ad/drinkrisk/internal/config"
	"github.com/ja7ad/drinkrisk/pkg/risk"
	"github.com/ja7ad/drinkrisk/pkg/session"
)

const version = "0.1.0"

type opts struct {
	configPath string
	verbose    bool

	// model
	policy         risk.Policy
	gramsPerKg     float64
	targetPerMille float64

	// inputs
	mass        float64
	volume      float64
	abv         float64
	coefficient float64
	sex         risk.Sex
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &opts{policy: risk.PolicyMassProportional}

	root := &cobra.Command{
		Use:   "drinkrisk",
		Short: "Drink risk indicator",
		Long: `The drinkrisk tool estimates grams of ethanol, a Widmark blood-alcohol
point estimate (‰) and the share of a reference "lethal" dose for a number
of identical drinks. The reference dose follows one of two policies:

  mass           8 g of ethanol per kg of body mass (default)
  concentration  the dose reaching 5 ‰ with r = 0.68 (male) or 0.55 (female)

No elimination over time is modelled. This is not medical advice.

Examples:
  drinkrisk calc --units 4
  drinkrisk calc --policy concentration --sex female --mass 60 --units 3
  drinkrisk sweep --volume 40 --abv 40 --csv shots.csv --html shots.html
  drinkrisk serve --config drinkrisk.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if o.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "path to a YAML config file")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	pf.Var(&o.policy, "policy", "threshold policy: mass | concentration")
	pf.Float64Var(&o.gramsPerKg, "grams-per-kg", 8, "ethanol grams per kg of body mass (mass policy)")
	pf.Float64Var(&o.targetPerMille, "target-per-mille", 5, "target concentration in ‰ (concentration policy)")

	pf.Float64VarP(&o.mass, "mass", "m", risk.DefaultBodyMassKg, "body mass in kg (min 1)")
	pf.Float64Var(&o.volume, "volume", risk.DefaultDrinkVolumeMl, "volume of one drink in mL (min 0)")
	pf.Float64Var(&o.abv, "abv", risk.DefaultABVPercent, "alcohol by volume in % (min 0)")
	pf.Float64VarP(&o.coefficient, "coefficient", "r", risk.DefaultCoefficient, "free Widmark coefficient r (min 0.01)")
	pf.Var(&o.sex, "sex", "category coefficient: male | female (overrides --coefficient)")

	root.AddCommand(
		newCalcCmd(o),
		newSweepCmd(o),
		newServeCmd(o),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}

// resolve loads the config file and applies explicitly set flags on top.
func resolve(flags *pflag.FlagSet, o *opts) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	set := func(name string, fn func()) {
		if flags.Changed(name) {
			fn()
		}
	}
	set("policy", func() { cfg.Model.Policy = o.policy })
	set("grams-per-kg", func() { cfg.Model.GramsPerKg = o.gramsPerKg })
	set("target-per-mille", func() { cfg.Model.TargetPerMille = o.targetPerMille })
	set("mass", func() { cfg.Defaults.BodyMassKg = o.mass })
	set("volume", func() { cfg.Defaults.DrinkVolumeMl = o.volume })
	set("abv", func() { cfg.Defaults.ABVPercent = o.abv })
	set("coefficient", func() { cfg.Defaults.Coefficient = o.coefficient })
	set("sex", func() { cfg.Defaults.Sex = o.sex })

	if err := cfg.ValidateModel(); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// newSession builds the model and a session over the resolved inputs.
// Flag inputs below their minimum are raised to it, as the session does.
func newSession(flags *pflag.FlagSet, o *opts) (*config.Config, *session.Session, error) {
	cfg, err := resolve(flags, o)
	if err != nil {
		return nil, nil, err
	}
	model := risk.New(cfg.RiskConfig())
	sess, err := session.New(model, cfg.Inputs())
	if err != nil {
		return nil, nil, fmt.Errorf("inputs: %w", err)
	}
	slog.Debug("model ready",
		"policy", model.Policy(),
		"grams_per_kg", cfg.Model.GramsPerKg,
		"target_per_mille", cfg.Model.TargetPerMille,
	)
	return cfg, sess, nil
}
