// Package sampling reduces a bag of sentiment-tagged reviews to a small,
// balanced sample and arranges it for a sequential reader.
//
// Every function here is pure: inputs are never modified, no I/O happens and
// no error is returned. Empty inputs produce empty outputs.
//
// The pipeline runs left to right:
//
//	Filter -> (sort by helpfulness) -> Stratify -> RankByWeight -> Arrange
//
// Filter and Stratify run once per sentiment pool; RankByWeight runs on each
// pool separately; Arrange merges the two pools.
package sampling
