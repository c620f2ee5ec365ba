package source_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nuflux/internal/flux"
	"github.com/san-kum/nuflux/internal/physics"
	"github.com/san-kum/nuflux/internal/source"
	"github.com/san-kum/nuflux/internal/species"
)

func fastParams() source.Params {
	p := source.DefaultParams()
	p.FoldSteps = 60
	p.Production.Steps = 30
	return p
}

var _ = Describe("Magnetar", func() {
	var (
		cfg source.MagnetarConfig
		m   *source.Magnetar
	)

	BeforeEach(func() {
		cfg = source.DefaultMagnetarConfig()
		var err error
		m, err = source.NewMagnetar(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("spin-down constants", func() {
		It("matches the recorded constants of the reference star", func() {
			const (
				mu  = 5e32
				tsd = 324.305203
				lum = 1.54175757e50
			)
			Expect(m.MagneticMoment()).To(BeNumerically("~", mu, mu*1e-12))
			Expect(m.SpinDownTime()).To(BeNumerically("~", tsd, tsd*1e-6))
			Expect(m.Luminosity()).To(BeNumerically("~", lum, lum*1e-6))
		})

		It("uses the vacuum torque when asked", func() {
			cfg.Magnetosphere = "Vacuum"
			v, err := source.NewMagnetar(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Model()).To(Equal(source.Vacuum))
			Expect(v.SpinDownTime()).To(BeNumerically(">", m.SpinDownTime()))
		})

		It("is deterministic", func() {
			again, err := source.NewMagnetar(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.SpinDownTime()).To(Equal(m.SpinDownTime()))
			Expect(again.Luminosity()).To(Equal(m.Luminosity()))
		})

		It("quarters the luminosity at the spin-down time", func() {
			Expect(m.SpinDownLuminosity(m.SpinDownTime())).To(BeNumerically("~", m.Luminosity()/4, m.Luminosity()*1e-12))
		})
	})

	Describe("construction errors", func() {
		It("rejects unknown magnetosphere models", func() {
			cfg.Magnetosphere = "split monopole"
			_, err := source.NewMagnetar(cfg)
			Expect(err).To(MatchError(flux.ErrUnknownModel))
			Expect(err.Error()).To(ContainSubstring("`force free`"))
			Expect(err.Error()).To(ContainSubstring("`vacuum`"))
		})

		It("rejects non-positive parameters", func() {
			cfg.Radius = 0
			_, err := source.NewMagnetar(cfg)
			Expect(err).To(MatchError(flux.ErrParameterBounds))
		})
	})

	Describe("ejecta", func() {
		It("dilutes as the ejecta expands", func() {
			Expect(m.EjectaRadius(1e4, 0.1)).To(BeNumerically("~", 0.1*physics.SpeedOfLight*1e4, 1))
			Expect(m.NumberDensity(1e4, 0.1, 10)).To(BeNumerically("<", m.NumberDensity(1e3, 0.1, 10)))
		})

		It("injects less energetic protons over time", func() {
			Expect(m.ProtonEnergy(1e6, 0.1)).To(BeNumerically("<", m.ProtonEnergy(0, 0.1)))
			Expect(m.ProtonEnergy(m.SpinDownTime(), 0.1)).To(BeNumerically("~", m.ProtonEnergy(0, 0.1)/2, m.ProtonEnergy(0, 0.1)*1e-12))
		})
	})

	Describe("hadron spectrum", func() {
		p := fastParams()
		t := 1e4

		It("is positive below the proton energy", func() {
			E := m.ProtonEnergy(t, p.Efficiency) * 0.05
			for _, h := range species.Hadrons.Members() {
				v, err := m.HadronSpectrum(t, E, h, p)
				Expect(err).NotTo(HaveOccurred())
				Expect(v.OrZero()).To(BeNumerically(">", 0), "species %s", h)
			}
		})

		It("vanishes above the proton energy", func() {
			E := m.ProtonEnergy(t, p.Efficiency) * 1.5
			v, err := m.HadronSpectrum(t, E, species.Pion, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.OrZero()).To(Equal(0.0))
		})

		It("scales with the optical depth when enabled", func() {
			E := m.ProtonEnergy(t, p.Efficiency) * 0.05
			without, _ := m.HadronSpectrum(t, E, species.Kaon, p)
			q := p
			q.OpticalDepth = true
			with, _ := m.HadronSpectrum(t, E, species.Kaon, q)
			od := m.OpticalDepth(t, p)
			Expect(with.OrZero()).To(BeNumerically("~", without.OrZero()*od, without.OrZero()*od*1e-9))
		})

		It("rejects non-hadrons", func() {
			_, err := m.HadronSpectrum(t, 1e6, species.Proton, p)
			Expect(err).To(MatchError(flux.ErrUnknownSpecies))
		})
	})

	Describe("neutrino spectrum", func() {
		p := fastParams()

		It("folds hadron decays into neutrinos", func() {
			Enu := m.ProtonEnergy(1e4, p.Efficiency) * 0.01
			v, err := source.NeutrinoSpectrum(m, 1e4, Enu, species.Pion, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.OrZero()).To(BeNumerically(">", 0))
		})

		It("is zero when decays cannot reach the energy", func() {
			Enu := m.ProtonEnergy(1e4, p.Efficiency)
			v, err := source.NeutrinoSpectrum(m, 1e4, Enu, species.Pion, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.OrZero()).To(Equal(0.0))
		})

		It("integrates over time windows", func() {
			q := p
			q.FoldSteps = 20
			Enu := m.ProtonEnergy(1e5, q.Efficiency) * 0.01
			v, err := source.Fluence(m, Enu, species.Pion, 1e3, 1e5, q)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.OrZero()).To(BeNumerically(">", 0))

			empty, err := source.Fluence(m, Enu, species.Pion, 1e5, 1e3, q)
			Expect(err).NotTo(HaveOccurred())
			Expect(empty.OrZero()).To(Equal(0.0))
		})
	})

	It("describes itself", func() {
		h := m.Header()
		Expect(h[0]).To(Equal("Magnetar:"))
		Expect(h).To(ContainElement(ContainSubstring("tsd = ")))
	})
})
