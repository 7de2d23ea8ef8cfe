package classify

import (
	"math"
	"testing"
)

func testFactorTable() FactorTable {
	return FactorTable{
		Electricity:     {PrimaryEnergy: 2.5, CO2: 0.296},
		NaturalGas:      {PrimaryEnergy: 1.1, CO2: 0.202},
		HeatingOil:      {PrimaryEnergy: 1.2, CO2: 0.266},
		DistrictHeating: {PrimaryEnergy: 1.3, CO2: 0.22},
		Biomass:         {PrimaryEnergy: 1.1, CO2: 0.022},
		Solar:           {PrimaryEnergy: 0.2, CO2: 0.0},
		OtherCarrier:    {PrimaryEnergy: 1.0, CO2: 0.25},
	}
}

func singleFamilyTable() ClassTable {
	return ClassTable{
		Bands: []ClassBand{
			{Class: "A0", Ceiling: 40},
			{Class: "A1", Ceiling: 75},
			{Class: "B", Ceiling: 150},
			{Class: "C", Ceiling: 225},
			{Class: "D", Ceiling: 300},
			{Class: "E", Ceiling: 375},
			{Class: "F", Ceiling: 450},
		},
		Worst: "G",
	}
}

func TestParseCarrier(t *testing.T) {
	c, err := ParseCarrier("natural_gas")
	if err != nil {
		t.Fatalf("ParseCarrier: %v", err)
	}
	if c != NaturalGas {
		t.Fatalf("got %q, want natural_gas", c)
	}

	if _, err := ParseCarrier("plutonium"); err == nil {
		t.Fatal("unknown carrier must be rejected, not defaulted")
	}
}

func TestConvert(t *testing.T) {
	table := testFactorTable()

	res, err := table.Convert([]Consumption{
		{Carrier: Electricity, FinalEnergy: 4000},
		{Carrier: NaturalGas, FinalEnergy: 15000},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	wantPE := 4000*2.5 + 15000*1.1
	if math.Abs(res.PrimaryEnergy-wantPE) > 1e-9 {
		t.Fatalf("primary energy = %g, want %g", res.PrimaryEnergy, wantPE)
	}
	wantCO2 := 4000*0.296 + 15000*0.202
	if math.Abs(res.CO2-wantCO2) > 1e-9 {
		t.Fatalf("CO2 = %g, want %g", res.CO2, wantCO2)
	}
	if len(res.PerCarrier) != 2 {
		t.Fatalf("per-carrier breakdown has %d entries, want 2", len(res.PerCarrier))
	}
}

func TestConvertRejectsBadInput(t *testing.T) {
	table := testFactorTable()

	if _, err := table.Convert([]Consumption{{Carrier: "coal_dust", FinalEnergy: 100}}); err == nil {
		t.Fatal("unknown carrier must be rejected")
	}
	if _, err := table.Convert([]Consumption{{Carrier: Electricity, FinalEnergy: -1}}); err == nil {
		t.Fatal("negative consumption must be rejected")
	}

	incomplete := FactorTable{Electricity: {PrimaryEnergy: 2.5, CO2: 0.296}}
	if _, err := incomplete.Convert(nil); err == nil {
		t.Fatal("table missing carriers must be rejected")
	}
}

func TestClassifySingleFamilyBoundary(t *testing.T) {
	table := singleFamilyTable()

	got, err := table.Classify(74.9)
	if err != nil {
		t.Fatalf("Classify(74.9): %v", err)
	}
	if got != "A1" {
		t.Fatalf("74.9 kWh/m2a classified as %s, want A1", got)
	}

	got, err = table.Classify(75.1)
	if err != nil {
		t.Fatalf("Classify(75.1): %v", err)
	}
	if got != "B" {
		t.Fatalf("75.1 kWh/m2a classified as %s, want B", got)
	}
}

func TestClassifyTotalAndMonotone(t *testing.T) {
	table := singleFamilyTable()

	classIndex := func(class string) int {
		order := []string{"A0", "A1", "B", "C", "D", "E", "F", "G"}
		for i, c := range order {
			if c == class {
				return i
			}
		}
		t.Fatalf("unexpected class %q", class)
		return -1
	}

	// Total over the real line, extremes included.
	for _, v := range []float64{math.Inf(-1), -100, 0, 40, 74.9, 75, 75.1, 500, 1e9, math.Inf(1), math.NaN()} {
		if _, err := table.Classify(v); err != nil {
			t.Fatalf("Classify(%g): %v", v, err)
		}
	}
	if got, _ := table.Classify(math.Inf(1)); got != "G" {
		t.Fatalf("+Inf classified as %s, want G", got)
	}
	if got, _ := table.Classify(-5); got != "A0" {
		t.Fatalf("-5 classified as %s, want A0", got)
	}

	// Monotone: a larger value never yields a better class.
	prev := -1
	for v := -50.0; v <= 600; v += 0.5 {
		class, err := table.Classify(v)
		if err != nil {
			t.Fatalf("Classify(%g): %v", v, err)
		}
		idx := classIndex(class)
		if idx < prev {
			t.Fatalf("classification not monotone at %g: index %d after %d", v, idx, prev)
		}
		prev = idx
	}
}

func TestClassTableValidation(t *testing.T) {
	if _, err := (ClassTable{Worst: "G"}).Classify(10); err == nil {
		t.Fatal("empty band list must be rejected")
	}

	unordered := ClassTable{
		Bands: []ClassBand{{Class: "A", Ceiling: 100}, {Class: "B", Ceiling: 50}},
		Worst: "G",
	}
	if _, err := unordered.Classify(10); err == nil {
		t.Fatal("descending ceilings must be rejected")
	}
}

func TestClassTableSet(t *testing.T) {
	set := ClassTableSet{SingleFamily: singleFamilyTable()}

	if _, err := set.Classify(SingleFamily, 80); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if _, err := set.Classify(BuildingSubtype("hospital"), 80); err == nil {
		t.Fatal("unknown subtype must be rejected")
	}
}
