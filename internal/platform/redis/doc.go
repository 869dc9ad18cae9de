// Package redis provides the Redis-backed implementations of the job queue,
// the analytics stream and the redirect cache. Queues are Redis lists
// (RPUSH to produce, BLPOP to consume) so any number of worker processes can
// compete for the same items.
package redis
