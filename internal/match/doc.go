// Package match suggests the directive keyword a user most likely meant.
//
// Candidates are ranked by edit distance over runes; those too far from
// the input are dropped.
package match
