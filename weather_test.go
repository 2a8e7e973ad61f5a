package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherDescription(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{0, "Clear sky"},
		{1, "Mainly clear"},
		{2, "Partly cloudy"},
		{3, "Overcast"},
		{45, "Fog"},
		{48, "Fog"},
		{51, "Drizzle"},
		{57, "Freezing Drizzle"},
		{61, "Rain"},
		{66, "Freezing Rain"},
		{71, "Snow"},
		{77, "Snow"},
		{80, "Rain Showers"},
		{85, "Snow Showers"},
		{95, "Thunderstorm"},
		{99, "Thunderstorm"},
		{150, "Unknown"},
		{-1, "Unknown"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, weatherDescription(c.code), "code %d", c.code)
	}
}

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Marrakesh", r.URL.Query().Get("name"))
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		w.Write([]byte(`{"results":[{"latitude":31.63,"longitude":-8.01}]}`))
	}))
	defer srv.Close()

	c := newWeatherClient(srv.URL, srv.URL, srv.URL)
	lat, lon, err := c.Geocode(context.Background(), "Marrakesh")
	require.NoError(t, err)
	assert.InDelta(t, 31.63, lat, 1e-9)
	assert.InDelta(t, -8.01, lon, 1e-9)
}

func TestGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := newWeatherClient(srv.URL, srv.URL, srv.URL)
	_, _, err := c.Geocode(context.Background(), "Nowhereville")
	assert.ErrorContains(t, err, "no results")
}

func TestForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("current"), "soil_moisture_3_9cm")
		w.Write([]byte(`{
			"current": {
				"temperature_2m": 24.5,
				"relative_humidity_2m": 40,
				"weather_code": 2,
				"soil_temperature_6cm": 19.1,
				"soil_moisture_3_9cm": 0.21
			},
			"daily": {
				"time": ["2026-08-31","2026-09-01"],
				"weather_code": [61, 0],
				"temperature_2m_max": [26.0, 29.5],
				"temperature_2m_min": [15.0, 16.2],
				"precipitation_probability_max": [80, 5]
			}
		}`))
	}))
	defer srv.Close()

	c := newWeatherClient(srv.URL, srv.URL, srv.URL)
	data, err := c.Forecast(context.Background(), 31.63, -8.01)
	require.NoError(t, err)

	assert.InDelta(t, 24.5, data.Current.Temp, 1e-9)
	assert.Equal(t, "Partly cloudy", data.Current.Condition)
	assert.InDelta(t, 0.21, data.Current.SoilMoisture, 1e-9)

	require.Len(t, data.Forecast, 2)
	assert.Equal(t, "Rain", data.Forecast[0].Condition)
	assert.InDelta(t, 80, data.Forecast[0].RainProb, 1e-9)
	assert.Equal(t, "Clear sky", data.Forecast[1].Condition)
}

func TestForecastUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newWeatherClient(srv.URL, srv.URL, srv.URL)
	_, err := c.Forecast(context.Background(), 0, 0)
	assert.ErrorContains(t, err, "non-2xx")
}

func TestReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"city":"Fes","countryName":"Morocco"}`))
	}))
	defer srv.Close()

	c := newWeatherClient(srv.URL, srv.URL, srv.URL)
	place, err := c.ReverseGeocode(context.Background(), 34.03, -5.0)
	require.NoError(t, err)
	assert.Equal(t, "Fes, Morocco", place)
}

func TestReverseGeocodeFallsBackToCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newWeatherClient(srv.URL, srv.URL, srv.URL)
	place, err := c.ReverseGeocode(context.Background(), 12.3456, -7.8901)
	require.NoError(t, err)
	assert.Equal(t, "12.3456, -7.8901", place)
}
