// Package task manages background job queuing, processing, and lifecycle.
// Every new short URL fans out into three enrichment jobs (QR code,
// screenshot, metadata) that competing workers pull from a shared queue,
// run, and record as exactly one JobResult each.
package task
