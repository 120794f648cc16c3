package model

import (
	"encoding/json"
	"testing"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	_ "github.com/lysyi3m/moodlehack/app/i18n"
)

func TestAnswerDerivedFields(t *testing.T) {
	a := &Answer{Month: 1, Year: 2026, Status: StatusActual}

	if a.Quarter() != 1 {
		t.Errorf("Expected quarter 1, got %d", a.Quarter())
	}
	if a.QuarterDisplay() != "2026 Q1" {
		t.Errorf("Expected '2026 Q1', got '%s'", a.QuarterDisplay())
	}
	if a.PeriodCode() != 202601 {
		t.Errorf("Expected period code 202601, got %d", a.PeriodCode())
	}
	if !a.IsActual() {
		t.Error("Expected answer with actual status to be actual")
	}
	if a.StatusColor() != "success" {
		t.Errorf("Expected color 'success', got '%s'", a.StatusColor())
	}

	ru := message.NewPrinter(language.Russian)
	if got := a.PeriodDisplay(ru); got != "Январь 2026" {
		t.Errorf("Expected 'Январь 2026', got '%s'", got)
	}
	en := message.NewPrinter(language.English)
	if got := a.PeriodDisplay(en); got != "January 2026" {
		t.Errorf("Expected 'January 2026', got '%s'", got)
	}
	if got := a.StatusDisplay(ru); got != "Актуален" {
		t.Errorf("Expected 'Актуален', got '%s'", got)
	}
}

func TestLegacyAnswerDisplay(t *testing.T) {
	en := message.NewPrinter(language.English)

	legacy := &Answer{Status: StatusUnknown}
	if got := legacy.PeriodDisplay(en); got != "" {
		t.Errorf("Expected empty period display, got '%s'", got)
	}
	if got := legacy.QuarterDisplay(); got != "" {
		t.Errorf("Expected empty quarter display, got '%s'", got)
	}

	yearOnly := &Answer{Year: 2023}
	if got := yearOnly.PeriodDisplay(en); got != "2023" {
		t.Errorf("Expected '2023', got '%s'", got)
	}
	if got := yearOnly.QuarterDisplay(); got != "" {
		t.Errorf("Expected empty quarter display, got '%s'", got)
	}
}

func TestMonthQuarter(t *testing.T) {
	tests := map[Month]int{1: 1, 3: 1, 4: 2, 6: 2, 7: 3, 9: 3, 10: 4, 12: 4, 0: 0, 13: 0}
	for month, want := range tests {
		if got := month.Quarter(); got != want {
			t.Errorf("Month %d: expected quarter %d, got %d", month, want, got)
		}
	}
}

func TestQuarterMonths(t *testing.T) {
	start, end, ok := QuarterMonths(1)
	if !ok || start != 1 || end != 3 {
		t.Errorf("Expected Q1 = 1..3, got %d..%d (%v)", start, end, ok)
	}
	start, end, ok = QuarterMonths(4)
	if !ok || start != 10 || end != 12 {
		t.Errorf("Expected Q4 = 10..12, got %d..%d (%v)", start, end, ok)
	}
	for _, q := range []int{0, 5, -1} {
		if _, _, ok := QuarterMonths(q); ok {
			t.Errorf("Expected quarter %d to be rejected", q)
		}
	}
}

func TestStatusCodes(t *testing.T) {
	codes := []string{"actual", "outdated", "draft", "review", "unknown"}
	statuses := Statuses()
	if len(statuses) != len(codes) {
		t.Fatalf("Expected %d statuses, got %d", len(codes), len(statuses))
	}
	for i, s := range statuses {
		if s.String() != codes[i] {
			t.Errorf("Expected code '%s', got '%s'", codes[i], s.String())
		}
		parsed, err := ParseStatus(codes[i])
		if err != nil || parsed != s {
			t.Errorf("ParseStatus(%q) = %v, %v", codes[i], parsed, err)
		}
		if s.Label() == "" || s.Color() == "" {
			t.Errorf("Status %s is missing display metadata", s)
		}
	}

	if _, err := ParseStatus("archived"); err == nil {
		t.Error("Expected error for unknown status code")
	}
	if Status(42).Valid() {
		t.Error("Expected out-of-range status to be invalid")
	}
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Status Status `json:"status"`
	}{StatusReview})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"status":"review"}` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	var decoded struct {
		Status Status `json:"status"`
	}
	if err := json.Unmarshal([]byte(`{"status":"outdated"}`), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Status != StatusOutdated {
		t.Errorf("Expected outdated, got %s", decoded.Status)
	}
	if err := json.Unmarshal([]byte(`{"status":"gone"}`), &decoded); err == nil {
		t.Error("Expected error decoding unknown status")
	}
}

func TestPeriodDisplay(t *testing.T) {
	en := message.NewPrinter(language.English)

	empty := &Period{ID: 1}
	if got := empty.Display(en); got != "Empty period" {
		t.Errorf("Expected 'Empty period', got '%s'", got)
	}

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	p := &Period{ID: 2, Date: &date}
	if got := p.Display(en); got != "March - 2024" {
		t.Errorf("Expected 'March - 2024', got '%s'", got)
	}
}
