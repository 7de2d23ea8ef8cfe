package thermal

import (
	"math"
	"testing"
)

func TestSaturationPressure(t *testing.T) {
	// Both branches agree at the phase boundary.
	if got := SaturationPressure(0); math.Abs(got-611.2) > 1e-9 {
		t.Fatalf("psat(0) = %g, want 611.2", got)
	}
	// Standard room condition, roughly 2333 Pa at 20 degC.
	if got := SaturationPressure(20); got < 2300 || got > 2400 {
		t.Fatalf("psat(20) = %g, want ~2333", got)
	}
	// Ice branch, well below the water-branch extrapolation.
	if got := SaturationPressure(-12); got < 200 || got > 235 {
		t.Fatalf("psat(-12) = %g, want ~217", got)
	}
	// Monotone increasing across the range.
	prev := SaturationPressure(-30)
	for temp := -29.0; temp <= 40; temp++ {
		cur := SaturationPressure(temp)
		if cur <= prev {
			t.Fatalf("psat not monotone at %g degC: %g <= %g", temp, cur, prev)
		}
		prev = cur
	}
}

func TestGlaserDryWall(t *testing.T) {
	// Exterior insulation keeps every boundary warm enough: no condensation
	// under the design winter condition.
	wall := brickEPSWall()

	res, err := AnalyzeCondensation(wall, DefaultWinterClimate())
	if err != nil {
		t.Fatalf("AnalyzeCondensation: %v", err)
	}
	if res.Risk != RiskNone {
		t.Fatalf("risk = %v, want none; boundaries: %+v", res.Risk, res.RiskBoundaries)
	}
	if len(res.RiskBoundaries) != 0 {
		t.Fatalf("expected no risk boundaries, got %d", len(res.RiskBoundaries))
	}
	if len(res.Profile) != 3 {
		t.Fatalf("profile has %d boundaries, want 3", len(res.Profile))
	}

	// Temperature profile runs from near-interior to near-exterior.
	first, last := res.Profile[0], res.Profile[2]
	if first.Temperature <= last.Temperature {
		t.Fatalf("interior boundary %g degC must be warmer than exterior %g degC", first.Temperature, last.Temperature)
	}
	if first.Temperature >= 20 || last.Temperature <= -12 {
		t.Fatalf("profile endpoints (%g, %g) must lie strictly inside the air temperatures", first.Temperature, last.Temperature)
	}
}

func TestGlaserInteriorInsulation(t *testing.T) {
	// Insulation on the warm side pushes the dewpoint into the wall:
	// classic interstitial condensation at the insulation/concrete interface.
	wall := Construction{
		Name: "retrofit gone wrong",
		Type: ExternalWall,
		Area: 50,
		Layers: []MaterialLayer{
			{Name: "EPS", Thickness: 0.10, Conductivity: 0.035, Density: 20, SpecificHeat: 1450, VaporResistance: 60},
			{Name: "concrete", Thickness: 0.20, Conductivity: 2.1, Density: 2400, SpecificHeat: 1000, VaporResistance: 100},
		},
	}

	res, err := AnalyzeCondensation(wall, DefaultWinterClimate())
	if err != nil {
		t.Fatalf("AnalyzeCondensation: %v", err)
	}
	if res.Risk != RiskInterstitial {
		t.Fatalf("risk = %v, want interstitial", res.Risk)
	}

	found := false
	for _, b := range res.RiskBoundaries {
		if b.Index == 1 {
			found = true
			if b.VaporPressure <= b.SaturationPressure {
				t.Fatalf("flagged boundary not condensing: p=%g, psat=%g", b.VaporPressure, b.SaturationPressure)
			}
		}
	}
	if !found {
		t.Fatalf("EPS/concrete interface not in risk boundaries: %+v", res.RiskBoundaries)
	}
}

func TestGlaserInterstitialDominatesSurface(t *testing.T) {
	if RiskNone >= RiskSurface || RiskSurface >= RiskInterstitial {
		t.Fatal("risk ordering must be none < surface < interstitial")
	}
	if RiskInterstitial.String() != "interstitial" || RiskSurface.String() != "surface" || RiskNone.String() != "none" {
		t.Fatal("risk String() mismatch")
	}
}

func TestGlaserClimateValidation(t *testing.T) {
	wall := brickEPSWall()

	bad := DefaultWinterClimate()
	bad.InteriorRH = 1.5
	if _, err := AnalyzeCondensation(wall, bad); err == nil {
		t.Fatal("expected error for relative humidity above 1")
	}

	bad = DefaultWinterClimate()
	bad.ExteriorTemp = -80
	if _, err := AnalyzeCondensation(wall, bad); err == nil {
		t.Fatal("expected error for implausible exterior temperature")
	}
}

func TestGlaserCustomClimate(t *testing.T) {
	// A mild climate should not condense even in the badly built wall.
	wall := Construction{
		Name: "interior insulation",
		Type: ExternalWall,
		Area: 50,
		Layers: []MaterialLayer{
			{Name: "EPS", Thickness: 0.10, Conductivity: 0.035, Density: 20, SpecificHeat: 1450, VaporResistance: 60},
			{Name: "concrete", Thickness: 0.20, Conductivity: 2.1, Density: 2400, SpecificHeat: 1000, VaporResistance: 100},
		},
	}
	mild := Climate{InteriorTemp: 20, ExteriorTemp: 18, InteriorRH: 0.4, ExteriorRH: 0.4}

	res, err := AnalyzeCondensation(wall, mild)
	if err != nil {
		t.Fatalf("AnalyzeCondensation: %v", err)
	}
	if res.Risk != RiskNone {
		t.Fatalf("risk = %v in mild climate, want none", res.Risk)
	}
}
