// Package taxreform computes and compares the indirect-tax liability of a
// business under the current Brazilian rules and under the projected IBS/CBS
// consumption-tax reform.
//
// The core functionalities include:
//   - Input Sanitation: Turning an untyped payload (decoded JSON, a submitted
//     form) into a fixed-shape Input. Missing or malformed values become zero,
//     the engine never fails on bad input.
//   - Before-Reform Pipeline: Entries (credits) and exits (debits) for
//     PIS/PASEP, COFINS, IPI, ICMS and ISS, netted per tax code.
//   - After-Reform Pipeline: Entries and exits for CBS, IBS and the selective
//     tax (IS), with a defaulting chain for the projected rates.
//   - Comparison: Absolute and relative difference between both regimes and a
//     classification of the effect (increase, decrease, neutral).
//   - Simplified Estimator: A coarse segment/activity based estimate that only
//     needs the invoicing and a cost band.
//
// Every tax amount is derived from a single formula, see Apply. The engine is
// a pure function of its input and reference tables: it holds no state and
// can be used concurrently.
package taxreform
