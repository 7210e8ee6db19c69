package util

import "testing"

func TestInferRemoteTriState(t *testing.T) {
	cases := []struct {
		name     string
		location string
		title    string
		desc     string
		want     *bool // nil = unknown
	}{
		{"remote only", "Remote", "", "", BoolPtr(true)},
		{"hybrid is onsite", "Hybrid", "", "", BoolPtr(false)},
		{"silent", "Austin, TX", "Software Engineer", "", nil},
		{"both is ambiguous", "Remote or On-site", "", "", nil},
		{"remote in title", "", "Senior Engineer (Remote)", "", BoolPtr(true)},
		{"wfh in description", "", "", "full work from home setup", BoolPtr(true)},
		{"in-office", "", "", "this role is in-office five days a week", BoolPtr(false)},
	}

	for _, c := range cases {
		got := InferRemote(c.location, c.title, c.desc)
		switch {
		case c.want == nil && got != nil:
			t.Errorf("%s: want unknown, got %v", c.name, *got)
		case c.want != nil && got == nil:
			t.Errorf("%s: want %v, got unknown", c.name, *c.want)
		case c.want != nil && got != nil && *c.want != *got:
			t.Errorf("%s: want %v, got %v", c.name, *c.want, *got)
		}
	}
}
