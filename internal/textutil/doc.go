// Package textutil canonicalizes the label strings that flow into consensus
// voting.
//
// The primary use cases are:
//   - Normalizing raw traits and labels (case, whitespace, edge punctuation)
//   - Folding free-text category proposals for cross-source comparison
//   - Turning source names into stable identifiers
//   - Fingerprinting short labels to spot near-duplicate categories
//
// Case mapping goes through golang.org/x/text so non-ASCII labels lower-case
// the same way on every platform.
package textutil
