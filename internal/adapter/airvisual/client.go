// Package airvisual reads city air quality from the IQAir AirVisual API.
package airvisual

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// ProviderName identifies readings produced by this client.
const ProviderName = "AirVisual"

const (
	defaultBaseURL = "https://api.airvisual.com/v2"
	defaultCountry = "India"
)

// Client queries the AirVisual city endpoint.
type Client struct {
	apiKey     string
	country    string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an AirVisual client that looks cities up in India.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		country:    defaultCountry,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
	}
}

// AirQuality returns the current US AQI for the named city. AirVisual
// reports only the index, so pollutant levels are estimated from it.
func (c *Client) AirQuality(ctx context.Context, city domain.City) (domain.AirQualityReading, error) {
	params := url.Values{
		"city":    {city.Name},
		"state":   {""},
		"country": {c.country},
		"key":     {c.apiKey},
	}
	fullURL := c.baseURL + "/city?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.AirQualityReading{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AirQualityReading{}, fmt.Errorf("airvisual request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.AirQualityReading{}, fmt.Errorf("airvisual API error: status %d: %s", resp.StatusCode, body)
	}

	body := cityResponse{}
	body.Data.Current.Weather = currentWeather{Temperature: 25, Humidity: 60, WindSpeed: 10}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.AirQualityReading{}, fmt.Errorf("decode response: %w", err)
	}
	if body.Status != "success" {
		return domain.AirQualityReading{}, fmt.Errorf("airvisual API status %q", body.Status)
	}

	aqi := body.Data.Current.Pollution.AQIUS
	w := body.Data.Current.Weather
	return domain.AirQualityReading{
		PM25:        aqi,
		PM10:        aqi * 1.2,
		NO2:         aqi * 0.3,
		CO:          aqi * 0.05,
		SO2:         aqi * 0.1,
		Temperature: w.Temperature,
		Humidity:    w.Humidity,
		WindSpeed:   w.WindSpeed,
		AQI:         aqi,
		Source:      ProviderName,
	}, nil
}

// AirVisual API response types.

type cityResponse struct {
	Status string `json:"status"`
	Data   struct {
		Current struct {
			Pollution struct {
				AQIUS float64 `json:"aqius"`
			} `json:"pollution"`
			Weather currentWeather `json:"weather"`
		} `json:"current"`
	} `json:"data"`
}

type currentWeather struct {
	Temperature float64 `json:"tp"`
	Humidity    float64 `json:"hu"`
	WindSpeed   float64 `json:"ws"`
}
