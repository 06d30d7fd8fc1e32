package main

import (
	"github.com/rs/zerolog/log"

	"github.com/notagain-app/notagain-core/routes"
)

// consoleRenderer stands in for the platform UI: it logs what screen
// would be presented.
type consoleRenderer struct{}

var _ routes.Renderer = consoleRenderer{}

func (consoleRenderer) Render(route routes.Route, params routes.Params) {
	event := log.Info().Str("screen", route.Path)
	if len(params) > 0 {
		event = event.Interface("params", params)
	}
	event.Msg("render")
}
