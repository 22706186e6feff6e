package interpolate

import "testing"

func TestString_Basic(t *testing.T) {
	vars := map[string]interface{}{"name": "Ada", "count": 3}

	got := String("hello {{name}}, you have {{count}} items", vars)
	want := "hello Ada, you have 3 items"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestString_UnknownLeftVerbatim(t *testing.T) {
	got := String("value: {{missing}}", map[string]interface{}{})
	want := "value: {{missing}}"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestString_Idempotent(t *testing.T) {
	vars := map[string]interface{}{"x": "1"}
	first := String("{{x}} and {{y}}", vars)
	second := String(first, vars)
	if first != second {
		t.Errorf("interpolation not idempotent: %q != %q", first, second)
	}
}

func TestValue_Nested(t *testing.T) {
	vars := map[string]interface{}{"city": "Lisbon"}
	input := map[string]interface{}{
		"address": map[string]interface{}{
			"city": "{{city}}",
		},
		"tags": []interface{}{"{{city}}", "static"},
	}

	got := Value(input, vars).(map[string]interface{})
	if got["address"].(map[string]interface{})["city"] != "Lisbon" {
		t.Errorf("nested map interpolation failed: %v", got)
	}
	tags := got["tags"].([]interface{})
	if tags[0] != "Lisbon" || tags[1] != "static" {
		t.Errorf("slice interpolation failed: %v", tags)
	}
}
