// Package service contains the application-specific use cases and business
// logic. It orchestrates the URL registry, the redirect cache, the job queue
// and the analytics stream to fulfill the shortener's three operations:
// creating a short URL, resolving one, and reporting its statistics.
//
// Error Handling:
//   - Expected conditions are returned as sentinel errors (ErrInvalidInput,
//     ErrConflict, ErrNotFound)
//   - Unexpected failures are wrapped in *ServiceError with the failing operation
//   - The API layer maps both to HTTP status codes with errors.Is/errors.As
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
