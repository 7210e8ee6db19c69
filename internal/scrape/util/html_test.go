package util

import "testing"

func TestHTMLToText(t *testing.T) {
	in := `<p>We are hiring.</p><ul><li>Go &amp; SQL</li><li>K8s<br>experience</li></ul>`
	got := HTMLToText(in)
	want := "We are hiring.\nGo & SQL\nK8s\nexperience"
	if got != want {
		t.Fatalf("HTMLToText:\n got %q\nwant %q", got, want)
	}
}

func TestHTMLToTextEmpty(t *testing.T) {
	if got := HTMLToText(""); got != "" {
		t.Fatalf("got %q", got)
	}
}
