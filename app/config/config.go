package config

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"
)

type Config struct {
	DB           *sql.DB
	EduSphereURL string
	Port         string
}

var AppConfig *Config

// Init connects to the user-directory database and loads service settings.
func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres dbname=edusphere_extension sslmode=disable"
		log.Println("DATABASE_URL not set, using local PostgreSQL database")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Printf("Database connection failed: %v", err)
		log.Println("\n=== DATABASE CONNECTION FAILED ===")
		log.Println("The user directory database is unreachable.")
		log.Println("\nTo use a local PostgreSQL database:")
		log.Println("1. Install PostgreSQL locally")
		log.Println("2. Create database: createdb edusphere_extension")
		log.Println("3. Run the application again (migrations run at startup)")
		log.Println("\nOr set DATABASE_URL to a reachable instance.")
		log.Fatal("Cannot establish database connection")
	}

	eduSphereURL := os.Getenv("EDUSPHERE_SERVICE_URL")
	if eduSphereURL == "" {
		eduSphereURL = "http://localhost:8082/api"
		log.Println("EDUSPHERE_SERVICE_URL not set, using", eduSphereURL)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	AppConfig = &Config{
		DB:           db,
		EduSphereURL: eduSphereURL,
		Port:         port,
	}
	log.Println("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}
