// Package entrypoints implements the non-regional collector family. Each
// entry point in the catalog - API, web portal, database, webhook spool,
// or file feed - gets one collector backed by a SourceAdapter that knows
// how to reach it. Pacing and retry behaviour match the statepages family
// so the orchestrator can batch both under the same ceiling.
package entrypoints
