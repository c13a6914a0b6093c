// Package probe detects exposed machine-readable endpoints.
//
// A Prober issues one GET per configured path suffix against the site's base
// URL. A 200, 401 or 403 answer is evidence that an endpoint exists (open or
// access-controlled). Network failures are skipped silently: absence of
// evidence, not evidence of absence.
package probe
