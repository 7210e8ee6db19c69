package extract

import "testing"

func TestExcluded(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"Privacy Policy and Cookies", true},
		{"Apply Now", true}, // also too short
		{"View all openings", true},
		{"Senior Software Engineer", false},
		{"Go", true}, // below min length
	}
	for _, c := range cases {
		if got := Excluded(c.title); got != c.want {
			t.Errorf("Excluded(%q) = %v, want %v", c.title, got, c.want)
		}
	}
}

func TestLooksLikeJobTitle(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"Senior Software Engineer", true},
		{"Product Designer, Growth", true},
		{"Our Benefits And Perks", false},
		{"Read more about the company", false},
		{"Staff Accountant", true},
		{"Random headline with no vocabulary", false},
	}
	for _, c := range cases {
		if got := LooksLikeJobTitle(c.title); got != c.want {
			t.Errorf("LooksLikeJobTitle(%q) = %v, want %v", c.title, got, c.want)
		}
	}
}
