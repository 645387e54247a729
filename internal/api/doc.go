// Package api exposes the learning application over JSON HTTP. Handlers
// translate requests into calls on the application services, map domain
// errors to status codes and never return raw error text to clients.
package api
