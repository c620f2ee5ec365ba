// Package physics provides the parametrizations of the hadronic production
// chain: hadron-proton cross sections, charm production, meson production,
// fragmentation, decay spectra and the attenuation factors of a target
// medium.
//
// Energies are in GeV, lengths in cm, times in s, number densities in
// cm^-3 and cross sections in mb unless a name says otherwise.
//
// Every function is pure. Functions keyed by species accept only their own
// subset and return a [flux.DomainError] for anything else. Evaluations
// outside a parametrization's physical domain are not errors: they return a
// [flux.Value] flagged as outside, which the folding engine treats as zero.
//
//   - [TotalHadronProton], [ElasticTotalRatio], [InelasticHadronProton]
//   - [CharmQuarkDifferential], [CharmedHadronDifferential], [CharmedHadronFragmentation]
//   - [MesonProduction], [CharmedHadronProduction], [Production]
//   - [MesonDecay], [CharmedHadronDecay], [HadronDecay]
//   - [CoolingFactor], [OpticalDepth]
package physics
