package monitoring

import (
	"testing"
	"time"
)

func TestRecordPrediction(t *testing.T) {
	mc := NewMetricsCollector()
	mc.RecordPrediction(OutcomeOK, 2*time.Millisecond)
	mc.RecordPrediction(OutcomeOK, 4*time.Millisecond)
	mc.RecordPrediction(OutcomeUnknownCategory, time.Millisecond)

	snap := mc.Snapshot()
	if snap.Counters["predictions_total"] != 3 {
		t.Fatalf("expected 3 predictions, got %d", snap.Counters["predictions_total"])
	}
	if snap.Counters["predictions_ok"] != 2 {
		t.Fatalf("expected 2 ok predictions, got %d", snap.Counters["predictions_ok"])
	}
	ok := snap.Latency[OutcomeOK]
	if ok.Count != 2 || ok.MinMs != 2 || ok.MaxMs != 4 || ok.AvgMs != 3 || ok.P95Ms != 4 {
		t.Fatalf("unexpected latency summary: %+v", ok)
	}
}

func TestRecordPredictionBoundsSamples(t *testing.T) {
	mc := NewMetricsCollector()
	for i := 0; i < maxSamples+50; i++ {
		mc.RecordPrediction(OutcomeOK, time.Millisecond)
	}
	snap := mc.Snapshot()
	if snap.Latency[OutcomeOK].Samples != maxSamples {
		t.Fatalf("expected %d samples, got %d", maxSamples, snap.Latency[OutcomeOK].Samples)
	}
	if snap.Latency[OutcomeOK].Count != maxSamples+50 {
		t.Fatalf("count must include dropped samples, got %d", snap.Latency[OutcomeOK].Count)
	}
}

func TestIncrCounter(t *testing.T) {
	mc := NewMetricsCollector()
	mc.IncrCounter("model_reloads", 1)
	mc.IncrCounter("model_reloads", 2)
	if got := mc.Counter("model_reloads"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
