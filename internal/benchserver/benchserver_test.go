package benchserver

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/kbfw/firmware/internal/bench"
	"github.com/kbfw/firmware/internal/matrix"
)

func TestStatusReportsCurrentKeycodesAndReport(t *testing.T) {
	rig, err := bench.New(bench.DefaultTable(), nil)
	if err != nil {
		t.Fatalf("bench.New: %v", err)
	}
	rig.SetKey(matrix.Coord{Row: 0, Col: 1}, true)
	for i := 0; i < bench.DebounceThreshold+1; i++ {
		rig.Tick()
	}

	srv := New(rig)
	url, err := srv.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	client := http.Client{Timeout: time.Second}
	resp, err := client.Get(url + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Keycodes  []string `json:"keycodes"`
		ReportHex string   `json:"report_hex"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.ReportHex) != 16 {
		t.Fatalf("report_hex = %q, want 16 hex chars for 8 bytes", body.ReportHex)
	}

	found := false
	for _, name := range body.Keycodes {
		if name == "A" {
			found = true
		}
	}
	if !found {
		t.Fatalf("keycodes = %v, want A present", body.Keycodes)
	}
}

func TestStatusRejectsNonGet(t *testing.T) {
	rig, err := bench.New(bench.DefaultTable(), nil)
	if err != nil {
		t.Fatalf("bench.New: %v", err)
	}
	srv := New(rig)
	url, err := srv.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	client := http.Client{Timeout: time.Second}
	resp, err := client.Post(url+"/status", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status code = %d, want 405", resp.StatusCode)
	}
}
