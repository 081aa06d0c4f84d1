package options

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/sambeau/nanoui/pkg/nanoui/ir"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

func pairs(opts []Option) [][2]string {
	out := make([][2]string, len(opts))
	for i, o := range opts {
		out[i] = [2]string{o.Value, o.Label}
	}
	return out
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected [][2]string
	}{
		{"json strings", `["a", "b"]`, [][2]string{{"a", "a"}, {"b", "b"}}},
		{"json objects", `[{"value":"a","label":"Apple"},{"value":"b","label":"Banana"}]`,
			[][2]string{{"a", "Apple"}, {"b", "Banana"}}},
		{"json label defaults to value", `[{"value":"x"}]`, [][2]string{{"x", "x"}}},
		{"json value defaults to label", `[{"label":"Only"}]`, [][2]string{{"Only", "Only"}}},
		{"json numbers", `[1, 2.5, true]`, [][2]string{{"1", "1"}, {"2.5", "2.5"}, {"true", "true"}}},
		{"json skips nulls and nested arrays", `["a", null, ["b"], {}]`, [][2]string{{"a", "a"}}},
		{"escaped json", `[{\"value\":\"a\",\"label\":\"Apple\"}]`, [][2]string{{"a", "Apple"}}},
		{"bare literal", `[Red, Green, Blue]`, [][2]string{{"Red", "Red"}, {"Green", "Green"}, {"Blue", "Blue"}}},
		{"quoted literal", `['a, b', "c"]`, [][2]string{{"a, b", "a, b"}, {"c", "c"}}},
		{"apostrophe in bare word", `[Don't panic, ok]`, [][2]string{{"Don't panic", "Don't panic"}, {"ok", "ok"}}},
		{"literal objects", `[{value: r, label: Red}, {value: "b", label: "Blue, dark"}]`,
			[][2]string{{"r", "Red"}, {"b", "Blue, dark"}}},
		{"literal object with braces in label", `[{value: x, label: "curly {x}"}, y]`,
			[][2]string{{"x", "curly {x}"}, {"y", "y"}}},
		{"literal object with escaped quotes", `[{value: q, label: "say \"hi\""}]`,
			[][2]string{{"q", `say "hi"`}}},
		{"literal object double escaped", `[{value: q, label: "say \\\"hi\\\""}]`,
			[][2]string{{"q", `say "hi"`}}},
		{"literal equals form", `[{value=a, label=Ay}]`, [][2]string{{"a", "Ay"}}},
		{"label with field-like text", `[{label: "value: no", value: yes}]`, [][2]string{{"yes", "value: no"}}},
		{"mixed literal", `[plain, {value: v}]`, [][2]string{{"plain", "plain"}, {"v", "v"}}},
		{"empty items skipped", `[a, , b,]`, [][2]string{{"a", "a"}, {"b", "b"}}},
		{"empty", ``, [][2]string{}},
		{"empty brackets", `[]`, [][2]string{}},
		{"not a list", `hello`, [][2]string{}},
		{"unterminated", `[a, b`, [][2]string{}},
		{"json object not list", `{"value":"a"}`, [][2]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pairs(ParseString(tt.input))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParse_Meta(t *testing.T) {
	p, err := ir.ParseJSON([]byte(`[{"value":"price","label":"Price","format":"currency:EUR","width":120}]`))
	if err != nil {
		t.Fatal(err)
	}
	opts := Parse(p)
	if len(opts) != 1 {
		t.Fatalf("got %d options", len(opts))
	}
	want := map[string]string{"format": "currency:EUR", "width": "120"}
	if !reflect.DeepEqual(opts[0].Meta, want) {
		t.Errorf("meta = %v, want %v", opts[0].Meta, want)
	}

	lit := ParseString(`[{value: d, label: Date, format: "date:long"}]`)
	if len(lit) != 1 || lit[0].Meta["format"] != "date:long" {
		t.Errorf("literal meta = %+v", lit)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	type pair struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	input := []pair{
		{"z", "Zed"},
		{"a", "Ay, with comma"},
		{"q", `quote " inside`},
		{"b", "{braces}"},
		{"m", "[brackets]"},
	}
	data, err := json.Marshal(input)
	if err != nil {
		t.Fatal(err)
	}

	got := ParseString(string(data))
	if len(got) != len(input) {
		t.Fatalf("got %d options, want %d", len(got), len(input))
	}
	for i, o := range got {
		if o.Value != input[i].Value || o.Label != input[i].Label {
			t.Errorf("option %d = (%q, %q), want (%q, %q)", i, o.Value, o.Label, input[i].Value, input[i].Label)
		}
	}

	p, err := ir.ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(pairs(Parse(p)), pairs(got)) {
		t.Error("structured and string parses differ")
	}
}

func TestParse_NonListProps(t *testing.T) {
	for _, p := range []ir.Prop{ir.Null{}, ir.Bool{Value: true}, ir.Number{Value: 3}, ir.Object{}} {
		if got := Parse(p); len(got) != 0 {
			t.Errorf("Parse(%v) = %v, want empty", p, got)
		}
	}
}

func TestFromValue(t *testing.T) {
	m := value.NewMap().With("value", value.Str{Value: "b"}).With("label", value.Str{Value: "Banana"})
	v := value.List{Items: []value.Value{value.Str{Value: "a"}, value.Int{Value: 2}, m, value.Null{}}}

	got := pairs(FromValue(v))
	want := [][2]string{{"a", "a"}, {"2", "2"}, {"b", "Banana"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromValue = %v, want %v", got, want)
	}

	if got := pairs(FromValue(value.Str{Value: "[x, y]"})); len(got) != 2 {
		t.Errorf("FromValue(string) = %v", got)
	}
	if got := FromValue(value.Int{Value: 1}); len(got) != 0 {
		t.Errorf("FromValue(int) = %v", got)
	}
}

func TestLabel(t *testing.T) {
	opts := ParseString(`[{"value":"a","label":"Apple"}]`)
	if got := Label(opts, "a"); got != "Apple" {
		t.Errorf("Label(a) = %q", got)
	}
	if got := Label(opts, "legacy"); got != "legacy" {
		t.Errorf("Label of unknown value should be the value, got %q", got)
	}
	if got := Label(nil, ""); got != "" {
		t.Errorf("Label of nothing = %q", got)
	}
}

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected []string
	}{
		{"a,b", []string{"a", "b"}},
		{"{a,b},[c,d]", []string{"{a,b}", "[c,d]"}},
		{`"x,y",z`, []string{`"x,y"`, "z"}},
		{`"say \"a,b\"",c`, []string{`"say \"a,b\""`, "c"}},
		{"it's,fine", []string{"it's", "fine"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		if got := splitTopLevel(tt.in); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("splitTopLevel(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
