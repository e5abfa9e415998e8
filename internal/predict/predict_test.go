package predict

import (
	"math"
	"testing"
)

func TestModel_FitsSeedWindow(t *testing.T) {
	m := NewModel()

	for _, s := range seedSamples {
		got := m.Predict(s.consumptionKWh, s.generationKWh)
		if math.Abs(got-s.nextKWh) > 1.0 {
			t.Errorf("Predict(%v, %v) = %v, want %v ± 1",
				s.consumptionKWh, s.generationKWh, got, s.nextKWh)
		}
	}
}

func TestModel_ExtrapolatesAlongTrend(t *testing.T) {
	m := NewModel()

	// One step past the seed window the trend continues.
	got := m.Predict(1100, 1150)
	if math.Abs(got-1120) > 2.0 {
		t.Errorf("Predict(1100, 1150) = %v, want ~1120", got)
	}
}

func TestModel_MonotonicInConsumption(t *testing.T) {
	m := NewModel()

	low := m.Predict(200, 250)
	high := m.Predict(800, 850)
	if high <= low {
		t.Errorf("Predict should grow with consumption: low=%v high=%v", low, high)
	}
}

func TestFit_NoSamples(t *testing.T) {
	if _, err := fit(nil); err == nil {
		t.Error("fit(nil) expected error, got nil")
	}
}
