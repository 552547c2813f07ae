// Package api exposes the review service over HTTP. Handlers parse path
// and body input, call review.Service, and translate its errors into
// status codes with client-safe messages. Users are identified by the
// {userID} path segment; authentication happens upstream of this service.
package api
