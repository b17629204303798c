// Package openweather reads air pollution and current weather from the
// OpenWeatherMap API.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// ProviderName identifies readings produced by this client.
const ProviderName = "OpenWeatherMap"

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// errNoCoordinates is returned for cities without a resolved position;
// both endpoints are queried by latitude and longitude.
var errNoCoordinates = errors.New("openweather: city has no coordinates")

// Client queries the OpenWeatherMap air_pollution and weather endpoints.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
	}
}

// AirQuality returns pollutant levels at the city's coordinates. CO is
// converted from µg/m³ to ppm-like units (÷1000) and the 1-5 index is
// scaled by 50.
func (c *Client) AirQuality(ctx context.Context, city domain.City) (domain.AirQualityReading, error) {
	if !city.HasCoordinates() {
		return domain.AirQualityReading{}, errNoCoordinates
	}

	var body pollutionResponse
	if err := c.get(ctx, "air_pollution", c.coordParams(city), &body); err != nil {
		return domain.AirQualityReading{}, err
	}
	if len(body.List) == 0 {
		return domain.AirQualityReading{}, errors.New("openweather: empty air pollution list")
	}

	entry := body.List[0]
	return domain.AirQualityReading{
		PM25:   entry.Components.PM25,
		PM10:   entry.Components.PM10,
		NO2:    entry.Components.NO2,
		CO:     entry.Components.CO / 1000,
		SO2:    entry.Components.SO2,
		AQI:    float64(entry.Main.AQI * 50),
		Source: ProviderName,
	}, nil
}

// Weather returns current conditions at the city's coordinates in metric
// units. Wind is converted to km/h and visibility to km.
func (c *Client) Weather(ctx context.Context, city domain.City) (domain.WeatherReading, error) {
	if !city.HasCoordinates() {
		return domain.WeatherReading{}, errNoCoordinates
	}

	params := c.coordParams(city)
	params.Set("units", "metric")

	body := weatherResponse{
		Main:       weatherMain{Temp: 25, Humidity: 60},
		Wind:       weatherWind{Speed: 10},
		Visibility: 10000,
	}
	if err := c.get(ctx, "weather", params, &body); err != nil {
		return domain.WeatherReading{}, err
	}

	main, description := "", "clear"
	if len(body.Weather) > 0 {
		main = body.Weather[0].Main
		description = body.Weather[0].Description
	}

	return domain.WeatherReading{
		Temperature:        body.Main.Temp,
		Humidity:           body.Main.Humidity,
		WindSpeed:          body.Wind.Speed * 3.6,
		Visibility:         body.Visibility / 1000,
		WeatherCondition:   conditionCode(main),
		WeatherDescription: description,
		Source:             ProviderName,
	}, nil
}

// conditionCode maps the OpenWeatherMap main group to the condition codes
// used by the accident formula.
func conditionCode(main string) int {
	main = strings.ToLower(main)
	switch {
	case strings.Contains(main, "rain"):
		return domain.WeatherRainy
	case strings.Contains(main, "fog"), strings.Contains(main, "mist"):
		return domain.WeatherFoggy
	default:
		return domain.WeatherClear
	}
}

func (c *Client) coordParams(city domain.City) url.Values {
	return url.Values{
		"lat":   {strconv.FormatFloat(city.Latitude, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(city.Longitude, 'f', -1, 64)},
		"appid": {c.apiKey},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openweather %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// OpenWeatherMap API response types.

type pollutionResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"` // 1 (good) to 5 (very poor)
		} `json:"main"`
		Components struct {
			CO   float64 `json:"co"`
			NO2  float64 `json:"no2"`
			SO2  float64 `json:"so2"`
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
		} `json:"components"`
	} `json:"list"`
}

type weatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main       weatherMain `json:"main"`
	Wind       weatherWind `json:"wind"`
	Visibility float64     `json:"visibility"` // metres
}

type weatherMain struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
}

type weatherWind struct {
	Speed float64 `json:"speed"` // m/s
}
