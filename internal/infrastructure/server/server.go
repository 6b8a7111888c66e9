package server

import "context"

// Server is anything with a Start/Stop lifecycle the application can
// supervise.
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
