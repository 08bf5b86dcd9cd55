// Package gallery provides an HTTP client for the image gallery backend.
//
// # Overview
//
// The backend exposes three endpoints:
//
//   - GET /health: liveness probe, any 2xx means healthy
//   - GET /gallery-images: {success, images[], message?}
//   - POST /delete-image: body {public_id}, returns {success, message?}
//
// # Errors
//
// Failures are reported with a small taxonomy so callers can pick the right
// message without string matching:
//
//   - ErrTimeout: the request context hit its deadline
//   - *StatusError: the server answered with a non-2xx status
//   - *AppError: the server answered 2xx with success=false
//   - ErrMalformed: the 2xx body could not be decoded
//
// Anything else is a transport failure (connection refused, DNS, TLS).
//
// # Timeouts
//
// The client never retries and relies on the caller's context for deadlines:
//
//	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
//	defer cancel()
//	images, err := client.ListImages(ctx)
package gallery
