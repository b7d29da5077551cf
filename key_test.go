package offsetpager

import (
	"encoding/base64"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Key_EncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		key  *int
	}{
		{"nil key", nil},
		{"zero key", lo.ToPtr(0)},
		{"positive key", lo.ToPtr(15)},
		{"negative prepend sentinel", lo.ToPtr(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeKey(EncodeKey(tt.key))
			require.NoError(t, err)
			require.Equal(t, tt.key, decoded)
		})
	}
}

func Test_Key_ZeroIsNotNil(t *testing.T) {
	// Key 0 is a real key (e.g. PrevKey of the page at offset pageSize) and
	// must stay distinguishable from "start of dataset".
	require.NotEmpty(t, EncodeKey(lo.ToPtr(0)))
	require.Empty(t, EncodeKey(nil))
}

func Test_DecodeKey_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not base64", "%%%"},
		{"not a number", base64.RawURLEncoding.EncodeToString([]byte("lol"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DecodeKey(tt.input)
			require.Error(t, err)
			require.Nil(t, key)
		})
	}
}

func Test_RawPageRequest_Decode(t *testing.T) {
	tests := []struct {
		name             string
		raw              RawPageRequest
		expectedKey      *int
		expectedPageSize int
		expectError      bool
	}{
		{
			name:             "empty token is the first page",
			raw:              RawPageRequest{PageSize: 20},
			expectedKey:      nil,
			expectedPageSize: 20,
		},
		{
			name:             "token carries the key",
			raw:              RawPageRequest{PageSize: 20, PageToken: EncodeKey(lo.ToPtr(40))},
			expectedKey:      lo.ToPtr(40),
			expectedPageSize: 20,
		},
		{
			name:             "page size is normalized",
			raw:              RawPageRequest{PageSize: 0},
			expectedPageSize: DefaultPageSize,
		},
		{
			name:        "broken token",
			raw:         RawPageRequest{PageSize: 20, PageToken: "???"},
			expectError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.raw.Decode()
			if tt.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expectedKey, req.Key)
			require.Equal(t, tt.expectedPageSize, req.PageSize)
			require.Equal(t, LoadRefresh, req.Kind)
		})
	}
}
