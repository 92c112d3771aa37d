package main

import (
	"github.com/rs/zerolog/log"

	"github.com/sahilchouksey/pandiu-api/app"
)

func main() {
	// setup and run app
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
