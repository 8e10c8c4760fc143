// Package api handles incoming HTTP requests, request validation, and
// response formatting for memory entries. It adapts HTTP to the entry
// service and maps service errors to status codes without leaking
// internal details.
package api
