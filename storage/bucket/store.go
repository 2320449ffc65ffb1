package bucket

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/naivary/wpsio/inout"
)

// Store adapts a Bucket to the storage contract of process outputs.
// Outputs are stored as objects named by the output identifier and
// owned by the request id; the returned URL is baseURL/<request>/<id>.
type Store struct {
	bucket  *Bucket
	baseURL string
}

var _ inout.Storage = (*Store)(nil)

func NewStore(b *Bucket, baseURL string) *Store {
	return &Store{bucket: b, baseURL: baseURL}
}

func (s *Store) Store(out *inout.ComplexOutput) (inout.StoreType, string, string, error) {
	data, err := out.Data()
	if err != nil {
		return 0, "", "", err
	}
	requestID := out.RequestID()
	if requestID == "" {
		requestID = uuid.NewString()
	}
	obj, err := NewObject(out.Identifier, requestID)
	if err != nil {
		return 0, "", "", err
	}
	if _, err := obj.Write(data); err != nil {
		return 0, "", "", err
	}
	obj.SetMeta(MetaKeyContentType, out.Format().MimeType)
	if err := s.bucket.Create(obj); err != nil {
		return 0, "", "", fmt.Errorf("storing output %s: %w", out.Identifier, err)
	}
	u, err := url.JoinPath(s.baseURL, requestID, obj.ID())
	if err != nil {
		return 0, "", "", fmt.Errorf("building output url: %w", err)
	}
	return inout.StoreObject, obj.ID(), u, nil
}
