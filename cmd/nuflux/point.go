package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/nuflux/internal/experiment"
	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/physics"
	"github.com/san-kum/nuflux/internal/source"
	"github.com/san-kum/nuflux/internal/species"
	"github.com/san-kum/nuflux/internal/viz"
	"github.com/spf13/cobra"
)

var (
	pointKind     string
	pointTime     float64
	pointEnergy   float64
	pointFrom     float64
	pointTo       float64
	validateCharm bool
	charmPoints   int
)

var pointKinds = []string{"hadron", "neutrino", "fluence", "cooling"}

func addPointFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pointKind, "kind", "neutrino", "quantity to evaluate (hadron, neutrino, fluence, cooling)")
	cmd.Flags().Float64Var(&pointTime, "time", 1e4, "time after birth (s)")
	cmd.Flags().Float64Var(&pointEnergy, "energy", 1e7, "hadron or neutrino energy (GeV)")
	cmd.Flags().Float64Var(&pointFrom, "from", 1e3, "fluence window start (s)")
	cmd.Flags().Float64Var(&pointTo, "to", 1e7, "fluence window end (s)")
	cmd.Flags().BoolVar(&validateCharm, "validate-charm", false, "compare integrated charm cross sections at 13 TeV with measurements")
	cmd.Flags().IntVar(&charmPoints, "charm-points", 2000, "momentum fraction samples of the charm validation")
}

func evaluatePoint(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if validateCharm {
		return checkCharm(cfg.Params.Production)
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	src := exp.Source()
	list, err := species.ParseList(species.Hadrons, cfg.Species)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SPECIES\t%s\tSTATUS\n", pointKind)
	for _, h := range list {
		v, err := evaluate(src, h, cfg.Params)
		if err != nil {
			return err
		}
		status := "ok"
		switch {
		case v.IsOutside():
			status = "outside: " + v.Reason()
		case v.IsWarned():
			status = "warned: " + v.Reason()
		}
		fmt.Fprintf(w, "%s\t%.6g\t%s\n", h.Label(), v.OrZero(), status)
	}
	return w.Flush()
}

func evaluate(src source.Source, h species.Species, p source.Params) (flux.Value, error) {
	switch pointKind {
	case "hadron":
		return src.HadronSpectrum(pointTime, pointEnergy, h, p)
	case "neutrino":
		return source.NeutrinoSpectrum(src, pointTime, pointEnergy, h, p)
	case "fluence":
		return source.Fluence(src, pointEnergy, h, pointFrom, pointTo, p)
	case "cooling":
		var (
			cf  float64
			err error
		)
		switch s := src.(type) {
		case *source.Magnetar:
			cf, err = s.CoolingFactor(pointTime, pointEnergy, h, p)
		case *source.Nucleus:
			cf, err = s.CoolingFactor(pointEnergy, h)
		}
		return flux.Valid(cf), err
	}
	return flux.Value{}, &flux.DomainError{Kind: "point quantity", Tag: pointKind, Allowed: pointKinds, Wrapped: flux.ErrUnknownModel}
}

func checkCharm(prod physics.Production) error {
	checks, err := physics.CheckCharm(prod.Charm, prod.Steps, charmPoints)
	if err != nil {
		return err
	}
	pairs := make([]viz.KV, 0, len(checks)+1)
	avg := 0.0
	for _, c := range checks {
		pairs = append(pairs, viz.KV{
			Key:   c.Species.Label(),
			Value: fmt.Sprintf("%.4g mb computed, %.4g mb measured, ratio %.6f", c.Computed, c.Measured, c.Ratio),
		})
		avg += c.Ratio / float64(len(checks))
	}
	pairs = append(pairs, viz.KV{Key: "avg", Value: fmt.Sprintf("%.6f", avg)})
	fmt.Println(viz.Panel(fmt.Sprintf("charm at sqrt(s) = %.0f GeV", physics.LHCSqrtS), viz.KeyValues(pairs)))
	return nil
}
