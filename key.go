package offsetpager

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/samber/lo"
)

var _encoder = base64.RawURLEncoding

// EncodeKey encodes a navigation key into a base64 token for API payloads.
// A nil key encodes to the empty string. Key 0 and the negative prepend
// sentinels are valid keys and produce non-empty tokens.
func EncodeKey(key *int) string {
	if key == nil {
		return ""
	}

	return _encoder.EncodeToString([]byte(strconv.Itoa(*key)))
}

// DecodeKey attempts to parse a base64-encoded token back into a key.
// The empty string decodes to a nil key.
func DecodeKey(b64String string) (*int, error) {
	if len(b64String) == 0 {
		return nil, nil
	}

	keyBytes, err := _encoder.DecodeString(b64String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded key: %w", err)
	}

	key, err := strconv.Atoi(string(keyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode key offset value: %w", err)
	}

	return lo.ToPtr(key), nil
}

// RawPageRequest is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging RawPageRequest `json:",inline"`
//	}
type RawPageRequest struct {
	// PageSize - maximum number of records to return in the response.
	PageSize int `json:"pageSize"`
	// PageToken - base64-encoded key obtained via Page.NextPageToken or
	// Page.PrevPageToken. If empty, the first page with PageSize records is
	// returned.
	PageToken string `json:"pageToken"`
}

// Decode converts RawPageRequest into a LoadRequest, normalizing PageSize and
// validating PageToken.
func (r RawPageRequest) Decode() (LoadRequest, error) {
	key, err := DecodeKey(r.PageToken)
	if err != nil {
		return LoadRequest{}, err
	}

	return Refresh(key, r.PageSize), nil
}
