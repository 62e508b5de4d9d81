package environment

import (
	"errors"
	"strings"
	"testing"

	"battlesim/internal/util"
)

const sampleCSV = `city,country,latitude,longitude,climate
Lagos,Nigeria,6.5244,3.3792,Tropical
Cairo,Egypt,30.0444,31.2357,Arid
Oslo,Norway,59.9139,10.7522,Continental
`

func TestReadCSV_ParsesRows(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(ds.Entries) != 3 {
		t.Fatalf("entries=%d want 3", len(ds.Entries))
	}
	if e := ds.Entries[1]; e.City != "Cairo" || e.Climate != "Arid" || e.Latitude != 30.0444 {
		t.Fatalf("row 2=%+v", e)
	}
}

func TestReadCSV_ColumnOrderIndependent(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("climate,city,longitude,latitude,country\nPolar,Nuuk,-51.7,64.2,Greenland\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if e := ds.Entries[0]; e.City != "Nuuk" || e.Latitude != 64.2 || e.Longitude != -51.7 {
		t.Fatalf("row=%+v", e)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrNoEntries) {
		t.Fatalf("empty: err=%v", err)
	}
	if _, err := ReadCSV(strings.NewReader("city,country,latitude,longitude,climate\n")); !errors.Is(err, ErrNoEntries) {
		t.Fatalf("header only: err=%v", err)
	}
	if _, err := ReadCSV(strings.NewReader("city,country\nA,B\n")); err == nil {
		t.Fatalf("missing columns accepted")
	}
	if _, err := ReadCSV(strings.NewReader("city,country,latitude,longitude,climate\nA,B,north,1,Arid\n")); err == nil {
		t.Fatalf("bad latitude accepted")
	}
}

func TestSample_WeatherMatchesClimate(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	r := util.New(99)
	days := 0
	for i := 0; i < 300; i++ {
		c := ds.Sample(r)
		ok := false
		for _, w := range WeatherOptions(c.Climate) {
			if w == c.Weather {
				ok = true
			}
		}
		if !ok {
			t.Fatalf("weather %q not valid for %q", c.Weather, c.Climate)
		}
		if c.IsDay {
			days++
		}
	}
	if days == 0 || days == 300 {
		t.Fatalf("day draws=%d, expected a mix", days)
	}
}

func TestSample_Reproducible(t *testing.T) {
	ds, _ := ReadCSV(strings.NewReader(sampleCSV))
	a := ds.Sample(util.New(5))
	b := ds.Sample(util.New(5))
	if a != b {
		t.Fatalf("same seed gave %+v and %+v", a, b)
	}
}

func TestWeatherOptions_UnknownClimate(t *testing.T) {
	if got := WeatherOptions("Lunar"); len(got) != 1 || got[0] != "Clear" {
		t.Fatalf("got %v", got)
	}
}

func TestLoadCSV_ShippedCities(t *testing.T) {
	ds, err := LoadCSV("../../assets/cities.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Entries) != 20 {
		t.Fatalf("entries=%d want 20", len(ds.Entries))
	}
	for _, e := range ds.Entries {
		if _, ok := weatherByClimate[e.Climate]; !ok {
			t.Fatalf("%s: climate %q has no weather table", e.City, e.Climate)
		}
	}
}
