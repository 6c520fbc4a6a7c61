package extract

import (
	"testing"
)

func TestAnchorLinks(t *testing.T) {
	fragment := `
	<div>
		<p>The claim is <b>false</b>.</p>
		<p>See <a href="https://demagog.cz/vyrok/1">Demagog <i>výrok</i></a>,
		<a href="/relative">relative</a>, <a href="#top">anchor</a>,
		<a href="mailto:x@example.com">mail</a> and
		<a href="https://www.demagog.cz/vyrok/1/#detail">duplicate</a>.</p>
		<a href="https://czso.cz/inflace"></a>
	</div>`

	links := AnchorLinks(fragment)
	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d: %+v", len(links), links)
	}

	if links[0].URL != "https://demagog.cz/vyrok/1" || links[0].Title != "Demagog výrok" {
		t.Errorf("Unexpected first link: %+v", links[0])
	}
	if links[1].Title != "czso.cz" {
		t.Errorf("Expected host title for empty anchor, got %q", links[1].Title)
	}
}

func TestVisibleText_SkipsScripts(t *testing.T) {
	text := VisibleText(`<p>Visible claim.</p><script>var hidden = 1;</script><style>p{}</style>`)
	if text != "Visible claim." {
		t.Errorf("Expected only visible text, got %q", text)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"https://WWW.Reuters.com/x/", "https://reuters.com/x"},
		{"https://reuters.com/x#section", "https://reuters.com/x"},
		{"https://reuters.com/x?utm_source=tw&id=4", "https://reuters.com/x?id=4"},
		{"HTTPS://reuters.com", "https://reuters.com"},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.expected {
			t.Errorf("Expected %q for %q, got %q", tt.expected, tt.in, got)
		}
	}
}

func TestDedupeLinks_FirstWins(t *testing.T) {
	links := DedupeLinks([]Link{
		{Title: "First", URL: "https://example.com/a"},
		{Title: "Second", URL: "https://www.example.com/a/"},
		{Title: "Third", URL: "https://example.com/b"},
	})

	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	if links[0].Title != "First" {
		t.Errorf("Expected first occurrence to win, got %q", links[0].Title)
	}
}

func TestLooksLikeHTML(t *testing.T) {
	if !LooksLikeHTML(`see <a class="x" href="https://a.cz">a</a>`) {
		t.Error("Expected anchor markup to be detected")
	}
	if LooksLikeHTML("plain [markdown](https://a.cz) text") {
		t.Error("Expected markdown not to be detected as HTML")
	}
}
