package configuration

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

// hold connection to db
var DB *gorm.DB

// InitLogger sets up the global zerolog logger.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("GIN_MODE") != "release" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// ConfigDB initializes the database connection and migrates the schema.
// TranslateError turns driver duplicate-key errors into gorm.ErrDuplicatedKey,
// which the numbering allocators rely on for their retry.
func ConfigDB() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msg("No .env file loaded, using environment as-is")
	}
	dsn := os.Getenv("DB")

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Queue{},
		&models.Medicine{},
		&models.Prescription{},
		&models.Transaction{},
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate the database schema")
	}
}
