package calllog

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

// AssertMethod asserts that the call used the expected HTTP method.
func (c *Call) AssertMethod(t testing.TB, expected string) {
	t.Helper()
	if !strings.EqualFold(c.Method, expected) {
		t.Errorf("call method mismatch\nexpected: %q\nactual: %q", expected, c.Method)
	}
}

// AssertURL asserts that the call targeted the expected absolute URL.
func (c *Call) AssertURL(t testing.TB, expected string) {
	t.Helper()
	if c.URL != expected {
		t.Errorf("call URL mismatch\nexpected: %q\nactual: %q", expected, c.URL)
	}
}

// AssertBody asserts that the request body exactly matches the expected string.
func (c *Call) AssertBody(t testing.TB, expected string) {
	t.Helper()
	if string(c.RequestBody) != expected {
		t.Errorf("request body does not match\nexpected: %q\nactual: %q", expected, c.RequestBody)
	}
}

// AssertBodyContains asserts that the request body contains the substring.
func (c *Call) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(string(c.RequestBody), substr) {
		t.Errorf("request body does not contain %q\nbody: %s", substr, c.RequestBody)
	}
}

// AssertJSONBody asserts that the request body matches the expected JSON.
// The expected value can be a string, []byte, or any value that JSON encodes.
func (c *Call) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	var expectedJSON, actualJSON any

	switch v := expected.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	case []byte:
		if err := json.Unmarshal(v, &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	default:
		// Marshal and unmarshal to normalize types.
		data, err := json.Marshal(v)
		if err != nil {
			t.Errorf("failed to marshal expected value: %v", err)
			return
		}
		if err := json.Unmarshal(data, &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	}

	if err := json.Unmarshal(c.RequestBody, &actualJSON); err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, c.RequestBody)
		return
	}

	if !reflect.DeepEqual(actualJSON, expectedJSON) {
		expectedBytes, _ := json.MarshalIndent(expectedJSON, "", "  ")
		actualBytes, _ := json.MarshalIndent(actualJSON, "", "  ")
		t.Errorf("request body does not match expected JSON\nexpected:\n%s\nactual:\n%s",
			expectedBytes, actualBytes)
	}
}

// AssertHeader asserts that the request carried the header with the value.
// Header lookup is case-insensitive.
func (c *Call) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()
	actual := c.RequestHeaders.Get(key)
	if actual == "" {
		t.Errorf("call does not have header %q", key)
		return
	}
	if actual != expected {
		t.Errorf("header %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// AssertStatus asserts the status code the caller observed.
func (c *Call) AssertStatus(t testing.TB, expected int) {
	t.Helper()
	if c.StatusCode != expected {
		t.Errorf("status code mismatch\nexpected: %d\nactual: %d", expected, c.StatusCode)
	}
}

// JSONField extracts a field from the request body JSON using dot notation,
// e.g. "user.name". Returns nil when the body is not JSON or the field is
// missing.
func (c *Call) JSONField(field string) any {
	var data map[string]any
	if err := json.Unmarshal(c.RequestBody, &data); err != nil {
		return nil
	}

	var current any = data
	for _, part := range strings.Split(field, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}
