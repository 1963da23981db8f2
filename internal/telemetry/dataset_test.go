package telemetry

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"inlet_flow,outlet_flow,capacity,current_level_m,rate_percent,rate_mph,surface_area,current_level_percent",
		"20,80,36000,5,-5,-0.5,1000,50",
		"10,10,1000,2,-1,-0.1,200,30",
	}, "\n")

	ds, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ds) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds))
	}
	if ds[0].Capacity != 36000 {
		t.Errorf("expected capacity 36000, got %v", ds[0].Capacity)
	}
	if ds[1].LevelPercent != 30 {
		t.Errorf("expected level percent 30, got %v", ds[1].LevelPercent)
	}
}

func TestReadCSV_ColumnOrderFree(t *testing.T) {
	// Columns shuffled relative to FeatureNames: mapping is by name.
	input := strings.Join([]string{
		"capacity,inlet_flow,current_level_percent,outlet_flow,rate_mph,current_level_m,surface_area,rate_percent",
		"36000,20,50,80,-0.5,5,1000,-5",
	}, "\n")

	ds, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := ds[0]
	if rec.InletFlow != 20 || rec.OutletFlow != 80 || rec.Capacity != 36000 {
		t.Errorf("columns mapped incorrectly: %+v", rec)
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	input := "inlet_flow,outlet_flow\n20,80\n"

	_, err := ReadCSV(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestReadCSV_BadNumber(t *testing.T) {
	input := strings.Join([]string{
		"inlet_flow,outlet_flow,capacity,current_level_m,rate_percent,rate_mph,surface_area,current_level_percent",
		"oops,80,36000,5,-5,-0.5,1000,50",
	}, "\n")

	_, err := ReadCSV(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestReadJSONL(t *testing.T) {
	input := strings.Join([]string{
		`{"inlet_flow":20,"outlet_flow":80,"capacity":36000,"current_level_m":5,"rate_percent":-5,"rate_mph":-0.5,"surface_area":1000,"current_level_percent":50}`,
		`{"inlet_flow":10,"outlet_flow":10,"capacity":1000,"current_level_m":2,"rate_percent":-1,"rate_mph":-0.1,"surface_area":200,"current_level_percent":30}`,
	}, "\n")

	ds, err := ReadJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ds) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds))
	}
	if ds[0].Capacity != 36000 {
		t.Errorf("expected capacity 36000, got %v", ds[0].Capacity)
	}
	if ds[1].LevelPercent != 30 {
		t.Errorf("expected level percent 30, got %v", ds[1].LevelPercent)
	}
}

func TestReadJSONL_UnknownField(t *testing.T) {
	input := `{"inlet_flow":20,"outlat_flow":80}`

	_, err := ReadJSONL(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestReadJSONL_Empty(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	ds := Dataset{
		{InletFlow: 20, OutletFlow: 80, Capacity: 36000, LevelM: 5, RatePercent: -5, RateMPH: -0.5, SurfaceArea: 1000, LevelPercent: 50},
		{InletFlow: 1.5, OutletFlow: 0.25, Capacity: 500, LevelM: 1.1, RatePercent: 2, RateMPH: 0.2, SurfaceArea: 42, LevelPercent: 99.9},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if len(got) != len(ds) {
		t.Fatalf("expected %d records, got %d", len(ds), len(got))
	}
	for i := range ds {
		if got[i] != ds[i] {
			t.Errorf("record %d: expected %+v, got %+v", i, ds[i], got[i])
		}
	}
}
