package engine

import (
	"testing"
)

func TestDeriveFieldName_CamelCase(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Name", "name"},
		{"Mobile No.", "mobileNo"},
		{"Voter ID", "voterId"},
		{"  Father's   Name ", "fatherSName"},
		{"Booth Number 2", "boothNumber2"},
		{"EMAIL", "email"},
	}

	for _, tc := range cases {
		got := DeriveFieldName(tc.label)
		if got != tc.want {
			t.Errorf("DeriveFieldName(%q) = %q, muốn %q", tc.label, got, tc.want)
		}
	}
}

func TestDeriveFieldName_Devanagari(t *testing.T) {
	// Label Devanagari: giữ nguyên ký tự Devanagari, bỏ khoảng trắng và
	// chấm câu. Ký tự ghép क्र (क + virama + र) phải sống sót nguyên vẹn.
	cases := []struct {
		label string
		want  string
	}{
		{"क्रमांक", "क्रमांक"},
		{"क्रमांक संख्या", "क्रमांकसंख्या"},
		{"नाम (Name)", "नाम"},
		{"मतदाता क्र.", "मतदाताक्र"},
	}

	for _, tc := range cases {
		got := DeriveFieldName(tc.label)
		if got != tc.want {
			t.Errorf("DeriveFieldName(%q) = %q, muốn %q", tc.label, got, tc.want)
		}
	}
}

func TestDeriveFieldName_Deterministic(t *testing.T) {
	label := "Mobile No."
	first := DeriveFieldName(label)
	for i := 0; i < 10; i++ {
		if got := DeriveFieldName(label); got != first {
			t.Fatalf("DeriveFieldName không deterministic: %q rồi %q", first, got)
		}
	}
}

func TestDeriveFieldName_Empty(t *testing.T) {
	if got := DeriveFieldName("!!!"); got != "" {
		t.Errorf("label toàn ký tự đặc biệt phải suy ra name rỗng, nhận %q", got)
	}
}
