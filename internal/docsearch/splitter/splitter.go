// Package splitter divides a LargeDocument into an ordered sequence of
// DocumentPart values using deterministic fixed-size character chunking.
package splitter

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"

	"docsearch-gateway/internal/docsearch/docmodel"
)

// ErrEmptyContent is returned when the document content is empty.
var ErrEmptyContent = errors.New("cannot split large document: content is empty")

const firstDocumentPartID = 1

// Split divides doc.Content into ordered chunks of at most partSize runes
// and returns one DocumentPart per chunk. All parts share doc's metadata and
// a freshly generated LargeDocID; DocPartID is a dense 1-based sequence.
func Split(doc docmodel.LargeDocument, partSize int) ([]docmodel.DocumentPart, error) {
	if doc.Content == "" {
		return nil, ErrEmptyContent
	}
	if partSize <= 0 {
		partSize = 1
	}

	largeDocID := uuid.New().String()
	chunks := splitRunes(doc.Content, partSize)

	parts := make([]docmodel.DocumentPart, 0, len(chunks))
	for i, chunk := range chunks {
		parts = append(parts, docmodel.DocumentPart{
			LargeDocID: largeDocID,
			DocPartID:  i + firstDocumentPartID,
			FileName:   doc.FileName,
			FilePath:   doc.FilePath,
			FileSize:   doc.FileSize,
			CreatedAt:  doc.CreatedAt,
			ModifiedAt: doc.ModifiedAt,
			Content:    chunk,
		})
	}
	return parts, nil
}

// splitRunes windows text into non-overlapping chunks of at most size runes,
// never splitting inside a multi-byte rune.
func splitRunes(text string, size int) []string {
	idxs := make([]int, 0, utf8.RuneCountInString(text)+1)
	idxs = append(idxs, 0)
	for i := 0; i < len(text); {
		_, w := utf8.DecodeRuneInString(text[i:])
		i += w
		idxs = append(idxs, i)
	}

	var chunks []string
	for start := 0; start < len(idxs)-1; start += size {
		end := start + size
		if end >= len(idxs)-1 {
			end = len(idxs) - 1
		}
		if end <= start {
			break
		}
		chunk := text[idxs[start]:idxs[end]]
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(idxs)-1 {
			break
		}
	}
	return chunks
}
