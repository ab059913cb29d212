package roster

import (
	"strings"
	"testing"
)

func testRoster() []Participant {
	return []Participant{
		{EmployeeID: "e1", FullName: "John Smith", Designation: "COO"},
		{EmployeeID: "e2", FullName: "Priya Raman", Designation: "VP Engineering"},
		{EmployeeID: "e3", FullName: "Miguel Ortega", Designation: "Head of Sales"},
	}
}

func TestResolveExactMatchCaseInsensitive(t *testing.T) {
	resolved := Resolve("john smith", testRoster())
	if resolved.EmployeeID != "e1" {
		t.Fatalf("expected employee e1, got %q", resolved.EmployeeID)
	}
	if resolved.DisplayName != "John Smith" {
		t.Fatalf("expected canonical display name, got %q", resolved.DisplayName)
	}
}

func TestResolveFuzzyMatch(t *testing.T) {
	resolved := Resolve("Jon Smith", testRoster())
	if resolved.EmployeeID != "e1" {
		t.Fatalf("expected fuzzy match on employee e1, got %q", resolved.EmployeeID)
	}
}

func TestResolveTokenMatch(t *testing.T) {
	resolved := Resolve("Priya from platform", testRoster())
	if resolved.EmployeeID != "e2" {
		t.Fatalf("expected token match on employee e2, got %q", resolved.EmployeeID)
	}
}

func TestResolveShortTokensIgnored(t *testing.T) {
	// Two-rune tokens never match, so initials alone stay unassigned.
	resolved := Resolve("JS", testRoster())
	if resolved.EmployeeID != "" {
		t.Fatalf("expected no match for initials, got %q", resolved.EmployeeID)
	}
}

func TestResolveNoMatch(t *testing.T) {
	resolved := Resolve("Nonexistent Person", testRoster())
	if resolved.EmployeeID != "" {
		t.Fatalf("expected no employee id, got %q", resolved.EmployeeID)
	}
	if !strings.HasPrefix(resolved.DisplayName, "UNASSIGNED:") {
		t.Fatalf("expected unassigned marker, got %q", resolved.DisplayName)
	}
	if !strings.Contains(resolved.DisplayName, "Nonexistent Person") {
		t.Fatalf("expected original name preserved, got %q", resolved.DisplayName)
	}
	if !resolved.IsUnassigned() {
		t.Fatalf("expected IsUnassigned to report true")
	}
}

func TestResolveBlankInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		resolved := Resolve(input, testRoster())
		if resolved.EmployeeID != "" {
			t.Fatalf("blank input %q resolved to %q", input, resolved.EmployeeID)
		}
		if resolved.DisplayName != "" {
			t.Fatalf("blank input %q produced display name %q", input, resolved.DisplayName)
		}
	}
}

func TestResolveTotalOverArbitraryInput(t *testing.T) {
	inputs := []string{
		"!!!", "a", strings.Repeat("x", 10000), "John\x00Smith", "名前のない人",
	}
	for _, input := range inputs {
		resolved := Resolve(input, testRoster())
		if resolved.DisplayName == "" && resolved.EmployeeID == "" && strings.TrimSpace(input) != "" {
			t.Fatalf("input %q produced empty resolution", input)
		}
	}
	// Empty roster is also a valid input.
	resolved := Resolve("John Smith", nil)
	if resolved.EmployeeID != "" {
		t.Fatalf("empty roster resolved to %q", resolved.EmployeeID)
	}
}

func TestTableListsNamesAndRoles(t *testing.T) {
	table := Table(testRoster())
	for _, want := range []string{"John Smith", "COO", "Priya Raman", "VP Engineering"} {
		if !strings.Contains(table, want) {
			t.Fatalf("roster table missing %q:\n%s", want, table)
		}
	}
}
