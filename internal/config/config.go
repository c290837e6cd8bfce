package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Backend    Backend    `envPrefix:"BACKEND_"`
	Storage    Storage    `envPrefix:"STORAGE_"`
	Cloudinary Cloudinary `envPrefix:"CLOUDINARY_"`
}

// Backend is the REST API the console consumes. "/api" is appended to BaseURL.
type Backend struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Storage holds the token and cached user between restarts.
type Storage struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite, mysql
	DSN    string `env:"DSN" envDefault:"storefront.db"`
}

type Cloudinary struct {
	BaseURL      string `env:"BASE_URL" envDefault:"https://api.cloudinary.com"`
	CloudName    string `env:"CLOUD_NAME"`
	UploadPreset string `env:"UPLOAD_PRESET"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
