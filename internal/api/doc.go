// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It translates HTTP concerns to task and account
// service operations and owns the mapping of service errors to responses.
package api
