package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// WeatherData is the snapshot handed to the irrigation advisor and to the
// dashboard: current conditions including soil readings plus a 7-day
// forecast.
type WeatherData struct {
	Current  CurrentWeather `json:"current"`
	Forecast []DailyWeather `json:"forecast"`
}

type CurrentWeather struct {
	Temp         float64 `json:"temp"`
	Humidity     float64 `json:"humidity"`
	Condition    string  `json:"condition"`
	Code         int     `json:"code"`
	SoilTemp     float64 `json:"soilTemp"`     // °C at 6cm depth
	SoilMoisture float64 `json:"soilMoisture"` // m³/m³ at 3-9cm depth
}

type DailyWeather struct {
	Date      string  `json:"date"`
	MaxTemp   float64 `json:"maxTemp"`
	MinTemp   float64 `json:"minTemp"`
	RainProb  float64 `json:"rainProb"`
	Condition string  `json:"condition"`
	Code      int     `json:"code"`
}

// WeatherClient resolves free-text locations to coordinates and fetches
// forecasts from open-meteo, plus a reverse-geocode lookup for settings.
type WeatherClient struct {
	geocodingURL      string
	forecastURL       string
	reverseGeocodeURL string
	http              *http.Client
}

func newWeatherClient(geocodingURL, forecastURL, reverseGeocodeURL string) *WeatherClient {
	return &WeatherClient{
		geocodingURL:      geocodingURL,
		forecastURL:       forecastURL,
		reverseGeocodeURL: reverseGeocodeURL,
		http:              &http.Client{Timeout: 15 * time.Second},
	}
}

// Geocode resolves a free-text place name to coordinates using the first
// search result.
func (c *WeatherClient) Geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	q := url.Values{}
	q.Set("name", location)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	var out struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodingURL+"?"+q.Encode(), &out); err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(out.Results) == 0 {
		return 0, 0, fmt.Errorf("geocode %q: no results", location)
	}
	return out.Results[0].Latitude, out.Results[0].Longitude, nil
}

// Forecast fetches current conditions and the daily forecast for the given
// coordinates.
func (c *WeatherClient) Forecast(ctx context.Context, lat, lon float64) (*WeatherData, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", "temperature_2m,relative_humidity_2m,weather_code,soil_temperature_6cm,soil_moisture_3_9cm")
	q.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max")
	q.Set("timezone", "auto")

	var out struct {
		Current struct {
			Temperature  float64 `json:"temperature_2m"`
			Humidity     float64 `json:"relative_humidity_2m"`
			WeatherCode  int     `json:"weather_code"`
			SoilTemp     float64 `json:"soil_temperature_6cm"`
			SoilMoisture float64 `json:"soil_moisture_3_9cm"`
		} `json:"current"`
		Daily struct {
			Time        []string  `json:"time"`
			WeatherCode []int     `json:"weather_code"`
			MaxTemp     []float64 `json:"temperature_2m_max"`
			MinTemp     []float64 `json:"temperature_2m_min"`
			RainProb    []float64 `json:"precipitation_probability_max"`
		} `json:"daily"`
	}
	if err := c.getJSON(ctx, c.forecastURL+"?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	data := &WeatherData{
		Current: CurrentWeather{
			Temp:         out.Current.Temperature,
			Humidity:     out.Current.Humidity,
			Condition:    weatherDescription(out.Current.WeatherCode),
			Code:         out.Current.WeatherCode,
			SoilTemp:     out.Current.SoilTemp,
			SoilMoisture: out.Current.SoilMoisture,
		},
	}
	for i, day := range out.Daily.Time {
		d := DailyWeather{Date: day}
		if i < len(out.Daily.WeatherCode) {
			d.Code = out.Daily.WeatherCode[i]
			d.Condition = weatherDescription(d.Code)
		}
		if i < len(out.Daily.MaxTemp) {
			d.MaxTemp = out.Daily.MaxTemp[i]
		}
		if i < len(out.Daily.MinTemp) {
			d.MinTemp = out.Daily.MinTemp[i]
		}
		if i < len(out.Daily.RainProb) {
			d.RainProb = out.Daily.RainProb[i]
		}
		data.Forecast = append(data.Forecast, d)
	}
	return data, nil
}

// ReverseGeocode maps coordinates back to a human-readable place name for
// the settings screen.
func (c *WeatherClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.6f", lat))
	q.Set("longitude", fmt.Sprintf("%.6f", lon))
	q.Set("localityLanguage", "en")

	var out struct {
		City                 string `json:"city"`
		Locality             string `json:"locality"`
		PrincipalSubdivision string `json:"principalSubdivision"`
		CountryName          string `json:"countryName"`
	}
	if err := c.getJSON(ctx, c.reverseGeocodeURL+"?"+q.Encode(), &out); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}

	place := out.City
	if place == "" {
		place = out.Locality
	}
	switch {
	case place != "" && out.CountryName != "":
		return place + ", " + out.CountryName, nil
	case place != "":
		return place, nil
	case out.CountryName != "":
		return out.CountryName, nil
	}
	return fmt.Sprintf("%.4f, %.4f", lat, lon), nil
}

func (c *WeatherClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2xx: %s, body: %s", resp.Status, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode resp: %w", err)
	}
	return nil
}

// weatherDescription maps an open-meteo WMO weather code to a display label.
func weatherDescription(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code == 1:
		return "Mainly clear"
	case code == 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code >= 45 && code <= 48:
		return "Fog"
	case code >= 51 && code <= 55:
		return "Drizzle"
	case code >= 56 && code <= 57:
		return "Freezing Drizzle"
	case code >= 61 && code <= 65:
		return "Rain"
	case code >= 66 && code <= 67:
		return "Freezing Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain Showers"
	case code >= 85 && code <= 86:
		return "Snow Showers"
	case code >= 95 && code <= 99:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}
