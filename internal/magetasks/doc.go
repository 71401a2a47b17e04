// Package magetasks holds the build, test and lint tasks behind the
// magefile. Tasks shell out through mage's sh helpers and report progress
// on Out.
package magetasks
