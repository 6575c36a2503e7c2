package version

import (
	"testing"
)

func TestGetMinorVersion(t *testing.T) {
	cases := map[string]string{
		"0.2.1": "0.2",
		"1.10.3": "1.10",
		"0.2":   "0.2",
		"1":     "1",
	}
	for input, expected := range cases {
		if got := GetMinorVersion(input); got != expected {
			t.Errorf("GetMinorVersion(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestGetSchemaVersion(t *testing.T) {
	if got := GetSchemaVersion("0.2.7"); got != "0.2.0" {
		t.Errorf("Expected 0.2.0, got %q", got)
	}
}

func TestSortVersions(t *testing.T) {
	versions := []string{"0.10.0", "0.2.0", "0.9.1", "0.2.1"}
	sorted := SortVersions(versions)

	expected := []string{"0.2.0", "0.2.1", "0.9.1", "0.10.0"}
	for i, v := range expected {
		if sorted[i] != v {
			t.Fatalf("Expected %v, got %v", expected, sorted)
		}
	}
}

func TestIsVersionGreaterThan(t *testing.T) {
	if !IsVersionGreaterThan("0.10.0", "0.9.9") {
		t.Error("0.10.0 should compare greater than 0.9.9")
	}
	if IsVersionGreaterThan("0.2.0", "0.2.0") {
		t.Error("Equal versions should not compare greater")
	}
	if !IsVersionGreaterOrEqualThan("0.2.0", "0.2.0") {
		t.Error("Equal versions should compare greater-or-equal")
	}
}
