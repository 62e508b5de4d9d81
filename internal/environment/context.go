// Package environment samples the battle context (location, climate,
// weather, time of day) attached to every outcome.
package environment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

var ErrNoEntries = errors.New("no city entries")

type Context struct {
	LocationName string  `json:"location_name"`
	Country      string  `json:"country"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Climate      string  `json:"climate"`
	Weather      string  `json:"weather"`
	IsDay        bool    `json:"is_day"`
}

type CityClimate struct {
	City      string
	Country   string
	Latitude  float64
	Longitude float64
	Climate   string
}

var weatherByClimate = map[string][]string{
	"Tropical":    {"Humid", "Rain", "Clear", "Storm"},
	"Arid":        {"Clear", "Windy", "Dusty", "Hot"},
	"Temperate":   {"Clear", "Rain", "Cloudy", "Windy"},
	"Continental": {"Snow", "Overcast", "Clear", "Rain"},
	"Polar":       {"Snow", "Blizzard", "Freezing Fog", "Clear"},
}

func WeatherOptions(climate string) []string {
	if w, ok := weatherByClimate[climate]; ok {
		return w
	}
	return []string{"Clear"}
}

// Dataset is loaded once per batch and only read afterwards.
type Dataset struct {
	Entries []CityClimate
}

func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV expects a header row naming at least city, country, latitude,
// longitude and climate, in any order.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoEntries
	}
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, need := range []string{"city", "country", "latitude", "longitude", "climate"} {
		if _, ok := col[need]; !ok {
			return nil, fmt.Errorf("missing column %q", need)
		}
	}

	ds := &Dataset{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(rec[col["latitude"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d latitude: %w", line, err)
		}
		lon, err := strconv.ParseFloat(rec[col["longitude"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d longitude: %w", line, err)
		}
		ds.Entries = append(ds.Entries, CityClimate{
			City:      rec[col["city"]],
			Country:   rec[col["country"]],
			Latitude:  lat,
			Longitude: lon,
			Climate:   rec[col["climate"]],
		})
	}
	if len(ds.Entries) == 0 {
		return nil, ErrNoEntries
	}
	return ds, nil
}

// Sample draws a city, a weather fitting its climate and day or night.
func (ds *Dataset) Sample(r *rand.Rand) Context {
	if len(ds.Entries) == 0 {
		return Context{}
	}
	e := ds.Entries[r.Intn(len(ds.Entries))]
	opts := WeatherOptions(e.Climate)
	return Context{
		LocationName: e.City,
		Country:      e.Country,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		Climate:      e.Climate,
		Weather:      opts[r.Intn(len(opts))],
		IsDay:        r.Intn(2) == 0,
	}
}

// Fixed always yields the same context; used when no dataset is configured.
type Fixed Context

func (f Fixed) Sample(*rand.Rand) Context { return Context(f) }
