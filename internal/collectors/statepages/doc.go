// Package statepages implements the per-region collector family. One
// collector exists per state business registry in the catalog; each paces
// its portal calls, retries transient failures with backoff, and reports
// its own metrics. The portal fetch itself sits behind the PageClient
// interface - the DOM scraping details live outside this package.
package statepages
