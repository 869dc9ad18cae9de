// Package bootstrap wires configuration into live infrastructure: the
// logger, the database pool, the Redis client, the queues and the cache.
// Both the API server and the worker process start through it.
package bootstrap
