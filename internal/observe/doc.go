/*
Package observe exposes supervisor diagnostics while a search runs.

# Overview

The supervisor optionally serves an HTTP listener with four routes:

  - /healthz  liveness plus a channel snapshot
  - /status   JSON snapshot of the channel and the search counters
  - /metrics  Prometheus registry (consumed, improvements, best, solved)
  - /stream   websocket feed of improvement and solved events

Metrics are pull-based collectors over the supervisor's snapshot, so
nothing here sits on the consume loop. Stream events fan out through a
hub that drops frames to slow subscribers instead of stalling.
*/
package observe
