package reqtrace

import (
	"fmt"
	"testing"
	"time"
)

func TestRecordKeepsNewestFirst(t *testing.T) {
	log := NewLog(10)
	for i := 0; i < 3; i++ {
		log.Record(Event{Path: fmt.Sprintf("/api/analyses/%d", i), Status: 200})
	}

	recent := log.Recent()
	if len(recent) != 3 {
		t.Fatalf("len(Recent) = %d, want 3", len(recent))
	}
	if recent[0].Path != "/api/analyses/2" {
		t.Errorf("Recent[0].Path = %q, want newest first", recent[0].Path)
	}
	if recent[2].Path != "/api/analyses/0" {
		t.Errorf("Recent[2].Path = %q, want oldest last", recent[2].Path)
	}
}

func TestRecordEvictsOldest(t *testing.T) {
	log := NewLog(2)
	log.Record(Event{Path: "/a"})
	log.Record(Event{Path: "/b"})
	log.Record(Event{Path: "/c"})

	if log.Len() != 2 {
		t.Fatalf("Len = %d, want 2", log.Len())
	}
	recent := log.Recent()
	if recent[0].Path != "/c" || recent[1].Path != "/b" {
		t.Errorf("Recent = %v, want /c then /b", recent)
	}
}

func TestOnChangeFires(t *testing.T) {
	log := NewLog(5)
	calls := 0
	log.SetOnChange(func() { calls++ })

	log.Record(Event{Path: "/a"})
	log.Record(Event{Path: "/b"})

	if calls != 2 {
		t.Errorf("onChange calls = %d, want 2", calls)
	}
}

func TestEventOutcome(t *testing.T) {
	cases := []struct {
		name   string
		event  Event
		failed bool
		cell   string
	}{
		{"success", Event{Status: 200}, false, "200"},
		{"server error", Event{Status: 503}, true, "503"},
		{"transport error", Event{Err: "connection refused"}, true, "error"},
		{"never sent", Event{}, false, "-"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.event.Failed(); got != tc.failed {
				t.Errorf("Failed() = %v, want %v", got, tc.failed)
			}
			if got := tc.event.Outcome(); got != tc.cell {
				t.Errorf("Outcome() = %q, want %q", got, tc.cell)
			}
		})
	}
}

func TestRequestTraceID(t *testing.T) {
	id, err := requestTraceID("a1b2c3d4-e5f6-4789-8abc-def012345678")
	if err != nil {
		t.Fatalf("requestTraceID: %v", err)
	}
	if !id.IsValid() {
		t.Error("trace ID should be valid for a UUID request ID")
	}

	if _, err := requestTraceID("not-a-uuid"); err == nil {
		t.Error("expected error for malformed request ID")
	}
}

func TestEventDurationSurvivesRecord(t *testing.T) {
	log := NewLog(5)
	start := time.Now().Add(-time.Second)
	log.Record(Event{Path: "/api/voice/jobs/1", Status: 200, Start: start, Duration: 42 * time.Millisecond})

	got := log.Recent()[0]
	if got.Duration != 42*time.Millisecond {
		t.Errorf("Duration = %v, want 42ms", got.Duration)
	}
	if !got.Start.Equal(start) {
		t.Errorf("Start = %v, want %v", got.Start, start)
	}
}
