package server

import "go.uber.org/fx"

// Module is an Fx module that provides the HTTP server.
var Module = fx.Options(
	fx.Provide(NewServer),
)
