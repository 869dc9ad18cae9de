// Package queue defines the FIFO contract shared by the job queue and the
// analytics stream, and provides an in-process implementation for
// single-process deployments and tests. The Redis implementation lives in
// internal/platform/redis.
package queue
