package arxiv

import "testing"

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	got, err := BuildQuery([]string{"large language model", "ti:alignment"}, []string{"cs.CL", "cs.LG"})
	if err != nil {
		t.Fatalf("BuildQuery error: %v", err)
	}

	want := `(all:"large language model" OR ti:alignment) AND (cat:cs.CL OR cat:cs.LG)`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBuildQueryTermsOnly(t *testing.T) {
	t.Parallel()

	got, err := BuildQuery([]string{"diffusion"}, nil)
	if err != nil {
		t.Fatalf("BuildQuery error: %v", err)
	}
	if got != `(all:"diffusion")` {
		t.Fatalf("unexpected query: %q", got)
	}
}

func TestBuildQueryEscapesQuotes(t *testing.T) {
	t.Parallel()

	got, err := BuildQuery([]string{`so-called "emergence"`}, nil)
	if err != nil {
		t.Fatalf("BuildQuery error: %v", err)
	}
	if got != `(all:"so-called \"emergence\"")` {
		t.Fatalf("unexpected query: %q", got)
	}
}

func TestBuildQuerySkipsBlankInput(t *testing.T) {
	t.Parallel()

	if _, err := BuildQuery([]string{"  ", ""}, []string{" "}); err == nil {
		t.Fatalf("expected error for effectively empty topic")
	}
}

func TestQuoteTermKeepsFieldPrefixes(t *testing.T) {
	t.Parallel()

	for _, term := range []string{"all:transformer", "cat:cs.AI", "AU:hinton"} {
		if got := quoteTerm(term); got != term {
			t.Fatalf("prefixed term must pass through: %q -> %q", term, got)
		}
	}
}
