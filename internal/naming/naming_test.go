package naming

import "testing"

func TestDisplayTitle(t *testing.T) {
	cases := map[string]string{
		"summer  in   provence": "Summer In Provence",
		"":                      "Untitled Album",
		"  ":                    "Untitled Album",
		"Brittany 2025":         "Brittany 2025",
	}
	for in, want := range cases {
		if got := DisplayTitle(in); got != want {
			t.Errorf("DisplayTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOutputBaseStripsUnsafeRunes(t *testing.T) {
	got := OutputBase(`trip: mountains/coast * "best of"?`)
	want := "Trip- Mountains-Coast - Best Of"
	if got != want {
		t.Fatalf("OutputBase = %q, want %q", got, want)
	}
}
