// Package format renders raw cell values for display according to a column's
// format spec, such as "number", "percent", "currency:EUR" or "date:long".
//
// Formatting never fails: a value that cannot be parsed for the requested
// format, or an unknown format, is returned unchanged.
package format

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en-US"

// SpecInfo describes a column format spec.
type SpecInfo struct {
	Spec        string `json:"spec"`
	Description string `json:"description"`
}

// Specs lists the understood column format specs.
var Specs = []SpecInfo{
	{"text", "Unchanged (also \"\" and \"raw\")"},
	{"number", "Grouped decimal, e.g. 1,234.5 (alias decimal)"},
	{"integer", "Rounded, grouped whole number (alias int)"},
	{"percent", "Fraction as a percentage, 0.25 -> 25%"},
	{"currency[:ISO]", "Amount with currency symbol, USD by default (alias money)"},
	{"date[:style]", "Localized date; style is short, medium, long, full or iso"},
	{"datetime[:style]", "Localized date followed by HH:MM"},
	{"time", "HH:MM"},
}

// Value formats raw according to spec in the given locale.
func Value(raw, spec, locale string) string {
	name, arg, _ := strings.Cut(strings.TrimSpace(spec), ":")
	name = strings.ToLower(strings.TrimSpace(name))
	arg = strings.TrimSpace(arg)
	if locale == "" {
		locale = DefaultLocale
	}

	switch name {
	case "", "text", "raw":
		return raw
	case "number", "decimal":
		f, ok := value.ParseNumber(raw)
		if !ok {
			return raw
		}
		return printer(locale).Sprintf("%v", number.Decimal(f))
	case "integer", "int":
		f, ok := value.ParseNumber(raw)
		if !ok {
			return raw
		}
		return printer(locale).Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(0)))
	case "percent":
		f, ok := value.ParseNumber(raw)
		if !ok {
			return raw
		}
		return printer(locale).Sprintf("%v", number.Percent(f))
	case "currency", "money":
		f, ok := value.ParseNumber(raw)
		if !ok {
			return raw
		}
		code := arg
		if code == "" {
			code = "USD"
		}
		cur, err := currency.ParseISO(strings.ToUpper(code))
		if err != nil {
			return raw
		}
		return printer(locale).Sprintf("%v", currency.Symbol(cur.Amount(f)))
	case "date", "datetime", "time":
		t, ok := ParseTime(raw, time.UTC)
		if !ok {
			return raw
		}
		loc := MondayLocale(locale)
		style := arg
		if style == "" {
			style = "medium"
		}
		var layout string
		switch name {
		case "date":
			layout = DateLayout(style, loc)
		case "datetime":
			layout = DateLayout(style, loc) + " 15:04"
		default:
			layout = "15:04"
		}
		return monday.Format(t, layout, loc)
	}
	return raw
}

// ParseTime parses a date/time in any of the common layouts dateparse knows.
func ParseTime(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(raw, loc, dateparse.PreferMonthFirst(true))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func printer(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return message.NewPrinter(tag)
}

// MondayLocale maps a locale string to a monday.Locale for date formatting.
// Unknown locales fall back to the language part, then to en_US.
func MondayLocale(locale string) monday.Locale {
	locale = strings.ToLower(strings.ReplaceAll(locale, "-", "_"))

	localeMap := map[string]monday.Locale{
		"en":    monday.LocaleEnUS,
		"en_us": monday.LocaleEnUS,
		"en_gb": monday.LocaleEnGB,
		"de":    monday.LocaleDeDE,
		"de_de": monday.LocaleDeDE,
		"fr":    monday.LocaleFrFR,
		"fr_fr": monday.LocaleFrFR,
		"fr_ca": monday.LocaleFrCA,
		"es":    monday.LocaleEsES,
		"es_es": monday.LocaleEsES,
		"it":    monday.LocaleItIT,
		"it_it": monday.LocaleItIT,
		"pt":    monday.LocalePtPT,
		"pt_pt": monday.LocalePtPT,
		"pt_br": monday.LocalePtBR,
		"nl":    monday.LocaleNlNL,
		"nl_nl": monday.LocaleNlNL,
		"ru":    monday.LocaleRuRU,
		"ru_ru": monday.LocaleRuRU,
		"pl":    monday.LocalePlPL,
		"sv":    monday.LocaleSvSE,
		"ja":    monday.LocaleJaJP,
		"ja_jp": monday.LocaleJaJP,
		"zh":    monday.LocaleZhCN,
		"zh_cn": monday.LocaleZhCN,
		"zh_tw": monday.LocaleZhTW,
		"ko":    monday.LocaleKoKR,
		"ko_kr": monday.LocaleKoKR,
	}

	if loc, ok := localeMap[locale]; ok {
		return loc
	}
	if lang, _, found := strings.Cut(locale, "_"); found {
		if loc, ok := localeMap[lang]; ok {
			return loc
		}
	}
	return monday.LocaleEnUS
}

// DateLayout returns the Go time layout for a style and locale.
// Styles: "short" (numeric), "medium" (abbreviated month), "long" (full
// month), "full" (with weekday), "iso".
func DateLayout(style string, locale monday.Locale) string {
	switch style {
	case "iso":
		return "2006-01-02"
	case "short":
		switch locale {
		case monday.LocaleEnUS:
			return "1/2/06"
		case monday.LocaleDeDE:
			return "02.01.06"
		case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
			return "06/1/2"
		default:
			return "02/01/06"
		}
	case "long":
		switch locale {
		case monday.LocaleEnUS:
			return "January 2, 2006"
		case monday.LocaleDeDE:
			return "2. January 2006"
		case monday.LocaleEsES:
			return "2 de January de 2006"
		case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
			return "2006年1月2日"
		case monday.LocaleKoKR:
			return "2006년 1월 2일"
		default:
			return "2 January 2006"
		}
	case "full":
		switch locale {
		case monday.LocaleEnUS:
			return "Monday, January 2, 2006"
		case monday.LocaleDeDE:
			return "Monday, 2. January 2006"
		case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
			return "2006年1月2日 Monday"
		default:
			return "Monday, 2 January 2006"
		}
	default: // medium
		switch locale {
		case monday.LocaleEnUS:
			return "Jan 2, 2006"
		case monday.LocaleDeDE:
			return "2. Jan. 2006"
		case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
			return "2006年1月2日"
		case monday.LocaleKoKR:
			return "2006년 1월 2일"
		default:
			return "2 Jan 2006"
		}
	}
}

// MonthName returns the localized full month name of t.
func MonthName(t time.Time, locale string) string {
	return monday.Format(t, "January", MondayLocale(locale))
}

// WeekdayName returns the localized weekday name of t.
func WeekdayName(t time.Time, locale string) string {
	return monday.Format(t, "Monday", MondayLocale(locale))
}
