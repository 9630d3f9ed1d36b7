// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"irfold/internal/jsonlutil"
	"irfold/pkg/api"
)

// StartJSONL streams each result as one JSON line (v1).
func StartJSONL(out io.Writer, bufSize int) (chan<- api.FoldResultV1, <-chan error) {
	return jsonlutil.Start[api.FoldResultV1](out, bufSize,
		func(enc *json.Encoder, r api.FoldResultV1) error { return enc.Encode(r) },
		IsBrokenPipe,
	)
}
