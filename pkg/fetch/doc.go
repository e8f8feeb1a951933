// Package fetch is the HTTP fetcher used for image downloads and for the
// static page renderer.
//
// Each attempt draws a User-Agent from the configured pool, sends
// "Connection: close" on a transport with keep-alives disabled and, when a
// proxy is configured, routes both http and https through it. Failed
// attempts are retried through pkg/retry with a fixed-step linear backoff
// (2s, 4s, 6s with the default four attempts).
//
// Any non-2xx status is an error: 5xx and 429 are retried, other 4xx
// responses fail immediately.
package fetch
