package source_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/physics"
	"github.com/san-kum/nuflux/internal/source"
	"github.com/san-kum/nuflux/internal/species"
)

var _ = Describe("Nucleus", func() {
	var n *source.Nucleus
	p := fastParams()

	BeforeEach(func() {
		var err error
		n, err = source.NewNucleus(source.DefaultNucleusConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	It("injects only inside its energy range", func() {
		Expect(n.Injection(1e6)).To(BeNumerically(">", 0))
		Expect(n.Injection(1e4)).To(Equal(0.0))
		Expect(n.Injection(1e13)).To(Equal(0.0))
	})

	It("weights the power law by the target optical depth", func() {
		cfg := source.DefaultNucleusConfig()
		Ep := 1e8
		want := cfg.Norm * math.Pow(Ep, -cfg.Index) * physics.OpticalDepth(Ep, cfg.Density, cfg.Size)
		Expect(n.Injection(Ep)).To(BeNumerically("~", want, want*1e-12))
	})

	It("produces hadrons below the maximum energy", func() {
		v, err := n.HadronSpectrum(0, 1e7, species.Pion, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.OrZero()).To(BeNumerically(">", 0))

		edge, err := n.HadronSpectrum(0, 1e12, species.Pion, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(edge.OrZero()).To(Equal(0.0))
	})

	It("produces neutrinos", func() {
		v, err := source.NeutrinoSpectrum(n, 0, 1e7, species.Kaon, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.OrZero()).To(BeNumerically(">", 0))
	})

	It("validates its configuration", func() {
		cfg := source.DefaultNucleusConfig()
		cfg.EMax = cfg.EMin
		_, err := source.NewNucleus(cfg)
		Expect(err).To(MatchError(flux.ErrParameterBounds))
	})
})

var _ = Describe("Registry", func() {
	r := source.NewRegistry()

	It("builds every registered source", func() {
		for _, name := range r.Names() {
			s, err := r.Get(name, source.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Name()).To(Equal(name))
		}
	})

	It("rejects unknown sources", func() {
		_, err := r.Get("blazar", source.DefaultConfig())
		Expect(err).To(MatchError(flux.ErrUnknownModel))
	})
})

var _ = Describe("Params", func() {
	It("validates defaults", func() {
		Expect(source.DefaultParams().Validate()).To(Succeed())
	})

	DescribeTable("rejects out-of-range values",
		func(mutate func(*source.Params)) {
			p := source.DefaultParams()
			mutate(&p)
			Expect(p.Validate()).NotTo(Succeed())
		},
		Entry("efficiency", func(p *source.Params) { p.Efficiency = 0 }),
		Entry("velocity", func(p *source.Params) { p.Velocity = 1 }),
		Entry("ejecta mass", func(p *source.Params) { p.EjectaMass = -1 }),
		Entry("fold steps", func(p *source.Params) { p.FoldSteps = 1 }),
		Entry("rule", func(p *source.Params) { p.Rule = "gauss" }),
	)
})
