package http

import "errors"

// ErrRouteNotFound is the error body for a known path asked for with a
// method it does not serve.
var ErrRouteNotFound = errors.New("route not found")
