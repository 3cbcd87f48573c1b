// Package writers turns model results into serialized outputs.
//
// Design:
//   • Writers own all presentation knowledge (TSV, JSON, JSONL, pretty tables).
//   • thermo/seqmat stay numeric-only; the app builds Rows and picks a format.
//   • JSON/JSONL records are pkg/api (v1) values for a stable wire format.
package writers
