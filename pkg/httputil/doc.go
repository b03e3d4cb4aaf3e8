// Package httputil provides HTTP plumbing shared by the family API client.
//
//   - [Retry] and [RetryWithBackoff]: retry with exponential backoff for
//     errors marked [Retryable]
//   - [NewClient]: an *http.Client with a timeout whose transport stamps
//     every request with an X-Request-ID
//
// Only errors wrapped with [Retryable] are retried. The API client marks
// network failures and 5xx responses that way and nothing else, so a 4xx
// never causes a second request.
package httputil
