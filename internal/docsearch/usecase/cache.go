package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"docsearch-gateway/internal/docsearch/docmodel"
)

// searchCacheKey hashes the index list and query shape into a stable key.
// Only non-scrolling requests are cached (see Service.Search), so the key
// need not account for a scroll cursor.
func searchCacheKey(params docmodel.SearchingParams) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(encoded)
	return fmt.Sprintf("search:%s:%s", strings.Join(params.Indexes, ","), hex.EncodeToString(sum[:]))
}

func encodeCachedPage(page docmodel.Pagination[docmodel.FoundedDocument]) ([]byte, bool) {
	raw, err := json.Marshal(page)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func decodeCachedPage(raw []byte) (docmodel.Pagination[docmodel.FoundedDocument], bool) {
	var page docmodel.Pagination[docmodel.FoundedDocument]
	if err := json.Unmarshal(raw, &page); err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, false
	}
	return page, true
}
