// Package writers turns fold results into serialized outputs.
//
// Writers own presentation; the engine stays domain-only and the batch
// runner stays orchestration-only. JSON and JSONL go through pkg/api (v1)
// for a stable wire format.
package writers
