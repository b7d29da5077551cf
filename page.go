package offsetpager

import "github.com/samber/lo"

// LoadKind identifies the direction of a load relative to pages the consumer
// already holds. The kind is declarative: the load algorithm is fully driven by
// the key, so Refresh/Append/Prepend differ only in where their key came from.
type LoadKind string

const (
	// LoadRefresh is an initial load or a reload at an arbitrary offset.
	LoadRefresh LoadKind = "REFRESH"
	// LoadAppend continues forward from a page's NextKey.
	LoadAppend LoadKind = "APPEND"
	// LoadPrepend continues backward from a page's PrevKey.
	LoadPrepend LoadKind = "PREPEND"
)

// LoadRequest describes one page load.
type LoadRequest struct {
	// Key - requested start offset. Nil means the beginning of the dataset.
	//
	// A negative key is the prepend sentinel produced by Page.PrevKey when the
	// previous page was misaligned: the load fetches the short window that ends
	// exactly at offset 0 (PageSize + Key rows starting at offset 0).
	Key *int
	// PageSize - maximum number of items to return. Non-positive values fall
	// back to the source's configured page size.
	PageSize int
	// Kind of the load. Informational; see LoadKind.
	Kind LoadKind
	// PlaceholdersEnabled mirrors whether the consumer renders placeholders for
	// unloaded items. ItemsBefore/ItemsAfter are reported either way, since the
	// count query runs regardless to validate the key; consumers that disabled
	// placeholders simply ignore the counts.
	PlaceholdersEnabled bool
}

// Refresh builds a request for an initial load or a reload at an arbitrary
// offset. A nil key means the start of the dataset.
func Refresh(key *int, pageSize int) LoadRequest {
	return LoadRequest{
		Key:                 key,
		PageSize:            NormalizePageSize(pageSize),
		Kind:                LoadRefresh,
		PlaceholdersEnabled: true,
	}
}

// Append builds a request continuing forward from a page's NextKey.
func Append(key int, pageSize int) LoadRequest {
	return LoadRequest{
		Key:                 lo.ToPtr(key),
		PageSize:            NormalizePageSize(pageSize),
		Kind:                LoadAppend,
		PlaceholdersEnabled: true,
	}
}

// Prepend builds a request continuing backward from a page's PrevKey. The key
// may be negative, see LoadRequest.Key.
func Prepend(key int, pageSize int) LoadRequest {
	return LoadRequest{
		Key:                 lo.ToPtr(key),
		PageSize:            NormalizePageSize(pageSize),
		Kind:                LoadPrepend,
		PlaceholdersEnabled: true,
	}
}

// Page is one bounded, ordered slice of the dataset plus its navigation keys
// and surrounding-item counts.
//
// Whenever the dataset size is unchanged during the load,
// ItemsBefore + len(Data) + ItemsAfter equals the dataset size.
type Page[T any] struct {
	// Data - items of the page, in dataset order.
	Data []T
	// PrevKey - key for the preceding page. Nil at the start of the dataset.
	//
	// PrevKey is the algebraically exact previous offset and is NOT clamped to
	// zero: a misaligned page whose start offset is smaller than the page size
	// reports a negative PrevKey, which a following Prepend load resolves into
	// the short window ending at offset 0. This keeps the key space a pure
	// arithmetic lattice independent of the dataset size.
	PrevKey *int
	// NextKey - key for the following page. Nil at the end of the dataset.
	NextKey *int
	// ItemsBefore - number of dataset items preceding Data.
	ItemsBefore int
	// ItemsAfter - number of dataset items following Data.
	ItemsAfter int
}

// NextPageToken returns the encoded NextKey for API payloads. Empty string at
// the end of the dataset.
func (p *Page[T]) NextPageToken() string {
	if p == nil {
		return ""
	}

	return EncodeKey(p.NextKey)
}

// PrevPageToken returns the encoded PrevKey for API payloads. Empty string at
// the start of the dataset.
func (p *Page[T]) PrevPageToken() string {
	if p == nil {
		return ""
	}

	return EncodeKey(p.PrevKey)
}
