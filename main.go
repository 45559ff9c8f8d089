package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Imanuelpalenewen/Final-Clinic/configuration"
	"github.com/Imanuelpalenewen/Final-Clinic/routes"
)

func Init() {
	configuration.InitLogger()
	configuration.ConfigDB()
	configuration.InitRedis()
}

func main() {
	// Perform application initialization
	Init()
	r := routes.SetupRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
