// Package health provides health checking for the response cache and its
// collaborators.
//
// A Checker reports the health of one component as Healthy, Degraded, or
// Unhealthy. The Aggregator combines checkers into a composite status and
// the HTTP handlers expose liveness/readiness/detailed endpoints.
//
// Cache-specific checkers are provided: CapacityChecker flags categories
// sitting at their entry cap, and SweeperChecker flags sweepers that have
// stopped completing passes. The upstream provider's checker is supplied by
// the caller via NewCheckerFunc.
package health
