package remote

import (
	"encoding/json"
	"errors"

	"github.com/certverify-labs/certverify/internal/domain"
)

var errEmptyBody = errors.New("empty response body")

// The backend is inconsistent about response shapes: some endpoints wrap
// the payload in {"status": ..., "data": ...}, others return the payload
// raw. normalize accepts both and fails with a typed error on anything
// else instead of silently defaulting.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func normalize(raw []byte, out interface{}) error {
	if len(raw) == 0 {
		return domain.ErrShapeMismatch.WithError(errEmptyBody)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return domain.ErrShapeMismatch.WithError(err)
		}
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return domain.ErrShapeMismatch.WithError(err)
	}
	return nil
}
