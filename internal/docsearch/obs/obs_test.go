package obs

import "testing"

func TestMockMetrics_RecordsCountersAndHistograms(t *testing.T) {
	m := NewMockMetrics()
	m.IncCounter("requests_total", map[string]string{"op": "search"})
	m.IncCounter("requests_total", map[string]string{"op": "search"})
	m.ObserveHistogram("stage_ms", 12.5, map[string]string{"stage": "split"})

	if m.Counters["requests_total"] != 2 {
		t.Fatalf("expected counter 2, got %d", m.Counters["requests_total"])
	}
	if len(m.Hists["stage_ms"]) != 1 || m.Hists["stage_ms"][0] != 12.5 {
		t.Fatalf("unexpected histogram values: %v", m.Hists["stage_ms"])
	}
	if m.Labels["stage_ms"][0]["stage"] != "split" {
		t.Fatalf("expected stage label recorded, got %+v", m.Labels["stage_ms"])
	}
}

func TestInitLogger_FallsBackToStdoutOnBadPath(t *testing.T) {
	// An unwritable directory path must not panic; InitLogger falls back to stdout.
	InitLogger("/this/path/does/not/exist/app.log", "debug")
}

func TestZerologLogger_MethodsDoNotPanic(t *testing.T) {
	var l ZerologLogger
	l.Info("starting", map[string]any{"port": 8088})
	l.Error("failed", map[string]any{"err": "boom"})
	l.Debug("trace", nil)
}
