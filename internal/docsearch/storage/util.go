package storage

import (
	"io"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// readAll drains a response body; callers already checked res.IsError().
func readAll(res *opensearchapi.Response) ([]byte, error) {
	return io.ReadAll(res.Body)
}
