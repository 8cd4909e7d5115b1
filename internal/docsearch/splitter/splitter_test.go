package splitter

import (
	"testing"

	"docsearch-gateway/internal/docsearch/docmodel"
)

func TestSplit_DensePartIDs(t *testing.T) {
	doc := docmodel.LargeDocument{
		FileName: "a.txt", FilePath: "/a.txt", FileSize: 26,
		CreatedAt: 1, ModifiedAt: 1,
		Content: "abcdefghijklmnopqrstuvwxyz",
	}
	parts, err := Split(doc, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 6 {
		t.Fatalf("expected 6 parts, got %d", len(parts))
	}
	for i, p := range parts {
		if p.DocPartID != i+1 {
			t.Fatalf("part %d: got DocPartID=%d, want %d", i, p.DocPartID, i+1)
		}
		if p.LargeDocID != parts[0].LargeDocID {
			t.Fatalf("part %d: LargeDocID mismatch across parts", i)
		}
		if p.FileName != doc.FileName || p.FilePath != doc.FilePath {
			t.Fatalf("part %d: metadata not carried from template", i)
		}
	}
	want := []string{"abcde", "fghij", "klmno", "pqrst", "uvwxy", "z"}
	for i, w := range want {
		if parts[i].Content != w {
			t.Fatalf("part %d: got %q, want %q", i, parts[i].Content, w)
		}
	}
}

func TestSplit_ConcatenationReconstructsContent(t *testing.T) {
	doc := docmodel.LargeDocument{Content: "The quick brown fox jumps over the lazy dog."}
	parts, err := Split(doc, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var rebuilt string
	for _, p := range parts {
		rebuilt += p.Content
	}
	if rebuilt != doc.Content {
		t.Fatalf("got %q, want %q", rebuilt, doc.Content)
	}
}

func TestSplit_EmptyContent(t *testing.T) {
	_, err := Split(docmodel.LargeDocument{Content: ""}, 10)
	if err != ErrEmptyContent {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestSplit_MultibyteRunesNotSplit(t *testing.T) {
	doc := docmodel.LargeDocument{Content: "héllo wörld"}
	parts, err := Split(doc, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var rebuilt string
	for _, p := range parts {
		rebuilt += p.Content
	}
	if rebuilt != doc.Content {
		t.Fatalf("got %q, want %q", rebuilt, doc.Content)
	}
}
