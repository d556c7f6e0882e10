package clock

import "testing"

func TestCalibrate(t *testing.T) {
	r := Calibrate(1000)
	if r.Samples != 1000 {
		t.Errorf("Samples = %d, want 1000", r.Samples)
	}
	if r.Mean < 0 {
		t.Errorf("Mean = %v, want >= 0", r.Mean)
	}
	if r.Low > r.High {
		t.Errorf("Low %v > High %v", r.Low, r.High)
	}
}

func TestCalibrateDefaultSampleCount(t *testing.T) {
	r := Calibrate(0)
	if r.Samples != 10000 {
		t.Errorf("Samples = %d, want default 10000", r.Samples)
	}
}
