package main

import (
	"os"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	JWTSecret string
	Port      string

	// Gemini. Analysis endpoints refuse to run without an API key.
	GeminiAPIKey string
	GeminiModel  string

	// Weather/geocoding upstreams, overridable for tests.
	GeocodingURL      string
	ForecastURL       string
	ReverseGeocodeURL string
}

func mustConfig() Config {
	cfg := Config{
		MongoURI:          getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getenv("MONGO_DB", "agrosense"),
		JWTSecret:         getenv("JWT_SECRET", "change_me"),
		Port:              getenv("PORT", "8080"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeocodingURL:      getenv("GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
		ForecastURL:       getenv("FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
		ReverseGeocodeURL: getenv("REVERSE_GEOCODE_URL", "https://api.bigdatacloud.net/data/reverse-geocode-client"),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
