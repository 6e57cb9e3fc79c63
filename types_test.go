package syrinx

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseMetrics(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"", MetricsAll, false},
		{"all", MetricsAll, false},
		{"primary", MetricsPrimary, false},
		{"derived", MetricsDerived, false},
		{"pace", MetricPace, false},
		{"pace,volume", MetricPace | MetricVolume, false},
		{" pace , tonal-variation ", MetricPace | MetricTonalVariation, false},
		{"primary,enthusiasm", MetricsPrimary | MetricEnthusiasm, false},
		{"cadence", 0, true},
		{"pace,", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseMetrics(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMetrics(%q) succeeded, want error", tc.in)
			}

			continue
		}

		if err != nil || got != tc.want {
			t.Errorf("ParseMetrics(%q) = %v, %v, want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestMetricString(t *testing.T) {
	tests := []struct {
		metric Metric
		want   string
	}{
		{MetricPace, "pace"},
		{MetricPauses, "pauses"},
		{MetricTonalVariation, "tonal-variation"},
		{MetricEnthusiasm, "enthusiasm"},
		{Metric(0), "unknown"},
		{MetricsAll, "unknown"},
	}
	for _, tc := range tests {
		if got := tc.metric.String(); got != tc.want {
			t.Errorf("Metric(%d).String() = %q, want %q", tc.metric, got, tc.want)
		}
	}
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Rating
	}{
		{1, RatingPoor},
		{2, RatingWeak},
		{3.4, RatingFair},
		{3.5, RatingGood},
		{5, RatingExcellent},
		{0, RatingPoor},
		{7, RatingExcellent},
	}
	for _, tc := range tests {
		if got := RatingFor(tc.score); got != tc.want {
			t.Errorf("RatingFor(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestDeliveryMetricsScore(t *testing.T) {
	metrics := DeliveryMetrics{
		Pace:           1,
		Volume:         2,
		Clarity:        3,
		PauseDuration:  4,
		TonalVariation: 5,
		Confidence:     1.5,
		Enthusiasm:     2.5,
	}

	tests := []struct {
		metric Metric
		want   float64
	}{
		{MetricPace, 1},
		{MetricVolume, 2},
		{MetricClarity, 3},
		{MetricPauses, 4},
		{MetricTonalVariation, 5},
		{MetricConfidence, 1.5},
		{MetricEnthusiasm, 2.5},
		{MetricPace | MetricVolume, 0},
		{0, 0},
	}
	for _, tc := range tests {
		if got := metrics.Score(tc.metric); got != tc.want {
			t.Errorf("Score(%v) = %v, want %v", tc.metric, got, tc.want)
		}
	}
}

func TestFallbackMetricsRecord(t *testing.T) {
	got := FallbackMetrics()

	want := DeliveryMetrics{
		Pace:           3.5,
		Volume:         4.0,
		Clarity:        3.8,
		PauseDuration:  2.1,
		TonalVariation: 3.2,
		Confidence:     3.7,
		Enthusiasm:     3.4,
	}
	if got != want {
		t.Errorf("FallbackMetrics() = %+v, want %+v", got, want)
	}
}

func TestDeliveryMetricsJSONKeys(t *testing.T) {
	payload, err := json.Marshal(FallbackMetrics())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	for _, key := range []string{
		`"pace"`, `"volume"`, `"clarity"`, `"pause_duration"`,
		`"tonal_variation"`, `"confidence"`, `"enthusiasm"`,
	} {
		if !strings.Contains(string(payload), key) {
			t.Errorf("marshaled record missing %s: %s", key, payload)
		}
	}
}
