package format

import (
	"strings"
	"testing"
	"time"

	"github.com/goodsign/monday"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		spec     string
		locale   string
		expected string
	}{
		{"empty spec", "1234.5", "", "en-US", "1234.5"},
		{"text", "hello", "text", "", "hello"},
		{"number en", "1234567.25", "number", "en-US", "1,234,567.25"},
		{"number de", "1234567", "number", "de-DE", "1.234.567"},
		{"integer", "1234.7", "integer", "en-US", "1,235"},
		{"percent", "0.25", "percent", "en-US", "25%"},
		{"date medium", "2024-03-05", "date", "en-US", "Mar 5, 2024"},
		{"date long gb", "2024-03-05", "date:long", "en-GB", "5 March 2024"},
		{"date long de", "2024-03-05", "date:long", "de-DE", "5. März 2024"},
		{"date iso", "March 5, 2024", "date:iso", "", "2024-03-05"},
		{"datetime", "2024-03-05 14:30:00", "datetime:short", "en-US", "3/5/24 14:30"},
		{"time", "2024-03-05T09:05:00Z", "time", "", "09:05"},
		{"bad number", "n/a", "number", "en-US", "n/a"},
		{"bad date", "not a date", "date", "en-US", "not a date"},
		{"unknown format", "x", "sparkline", "en-US", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Value(tt.raw, tt.spec, tt.locale); got != tt.expected {
				t.Errorf("Value(%q, %q, %q) = %q, want %q", tt.raw, tt.spec, tt.locale, got, tt.expected)
			}
		})
	}
}

func TestValue_Currency(t *testing.T) {
	got := Value("12.5", "currency", "en-US")
	if !strings.Contains(got, "$") || !strings.Contains(got, "12.50") {
		t.Errorf("Value(currency) = %q, want dollar amount with cents", got)
	}

	got = Value("12.5", "currency:eur", "de-DE")
	if !strings.Contains(got, "€") || !strings.Contains(got, "12,50") {
		t.Errorf("Value(currency:eur, de) = %q", got)
	}

	if got := Value("12.5", "currency:XXXX", "en-US"); got != "12.5" {
		t.Errorf("invalid currency code should return raw, got %q", got)
	}
}

func TestMondayLocale(t *testing.T) {
	tests := []struct {
		in       string
		expected monday.Locale
	}{
		{"en-US", monday.LocaleEnUS},
		{"en_GB", monday.LocaleEnGB},
		{"de-AT", monday.LocaleDeDE},
		{"fr", monday.LocaleFrFR},
		{"xx-YY", monday.LocaleEnUS},
		{"", monday.LocaleEnUS},
	}
	for _, tt := range tests {
		if got := MondayLocale(tt.in); got != tt.expected {
			t.Errorf("MondayLocale(%q) = %v, want %v", tt.in, got, tt.expected)
		}
	}
}

func TestMonthAndWeekdayNames(t *testing.T) {
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	if got := MonthName(d, "en-US"); got != "March" {
		t.Errorf("MonthName(en) = %q", got)
	}
	if got := MonthName(d, "fr-FR"); got != "mars" {
		t.Errorf("MonthName(fr) = %q", got)
	}
	if got := WeekdayName(d, "en-US"); got != "Tuesday" {
		t.Errorf("WeekdayName(en) = %q", got)
	}
}
