// Package catalog provides the built-in pattern catalog for Strand Core.
//
// The catalog is an immutable data table mapping human-readable effect
// names ("River Blue", "Candle Glow") to the protocol parameters that
// produce them. The default data ships embedded in the binary; an
// alternative YAML file can be supplied through configuration for
// installations with custom shows.
//
// Lookups:
//
//   - Resolve: name → command parameters, for issuing effects
//   - NameForType: pattern type → first matching name, for labelling
//     observed controller state
//
// The catalog is loaded once at startup and never modified, so it is
// safe for concurrent use without locking.
package catalog
