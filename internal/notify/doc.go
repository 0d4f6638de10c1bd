// Package notify publishes run summaries to a NATS subject so that other
// services (chat bots, dashboards) can react to finished deploys.
//
// Publication is best effort: connection and publish failures are logged and
// never alter the outcome or exit code of a run.
package notify
