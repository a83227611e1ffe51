// Package services implements the driving port interfaces.
// The Host orchestrates normalisers, the record index and answer
// synthesis; it holds no mutable state of its own.
package services
