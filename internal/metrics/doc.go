// SPDX-License-Identifier: MPL-2.0

// Package metrics exports console activity as Prometheus metrics: command
// executions and their duration, parse failures by reason, assist requests
// by outcome and open sessions.
package metrics
