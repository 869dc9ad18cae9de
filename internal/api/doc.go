// Package api handles incoming HTTP requests, request validation and
// response formatting for the shortener. It acts as an adapter between
// external clients and the service layer, translating HTTP concerns to
// shorten, resolve and stats operations and service errors back to status
// codes.
package api
