// Package pipeline wires the stages of a run together.
//
// A run loads packages (analyze), processes every annotated record (plan),
// renders one file per package (gen), and then either writes the files,
// compares them against disk, or reports the resolved policies.
//
// Packages are independent and are processed concurrently. A record that
// fails produces a diagnostic and no methods; the other records of the same
// package are still generated.
package pipeline
