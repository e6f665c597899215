// Package citation synthesizes hash-unique citation variants from a pool of
// base fragments.
//
// A variant is a base fragment decorated with a random insertion clause, a
// random attribution clause and a visible short identifier. Its text is
// fingerprinted and accepted only if the fingerprint is absent from the
// caller's registry; accepted fingerprints are inserted into that registry
// in place. Each Generate call is bounded to three attempts per pool entry,
// so callers must accept a result shorter than requested.
//
// All randomness flows through Source so tests can script every choice.
package citation
