package resolve

import "testing"

func TestResolve(t *testing.T) {
	known := []string{"Sharma Medicals", "Verma Traders", "City Pharma"}
	r := New(known, 0)

	cases := []struct {
		scanned string
		want    string
	}{
		{"Sharm Medicals", "Sharma Medicals"},
		{"sharma medicals", "Sharma Medicals"},
		{"  Verma Traders ", "Verma Traders"},
		{"Verma Tradrs", "Verma Traders"},
		{"Totally New Co", "Totally New Co"},
		{"", ""},
	}

	for _, c := range cases {
		if got := r.Resolve(c.scanned); got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.scanned, got, c.want)
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	known := []string{"Sharma Medicals", "Verma Traders"}
	r := New(known, 0)

	for _, in := range []string{"Sharm Medicals", "Totally New Co", "Verma Traders"} {
		once := r.Resolve(in)
		twice := r.Resolve(once)
		if once != twice {
			t.Errorf("Resolve not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestResolveNoKnownNames(t *testing.T) {
	r := New(nil, 0)
	if got := r.Resolve("Anything"); got != "Anything" {
		t.Errorf("Resolve with empty directory = %q, want input unchanged", got)
	}
}
