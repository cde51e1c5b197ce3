// Package analysis inspects sampled run series.
//
// [Spectrum] gives the one-sided magnitude spectrum of a series sampled at a
// fixed rate. [DominantFrequency] picks its strongest non-DC component, which
// for a rain run is roughly how often the population turns over.
package analysis
