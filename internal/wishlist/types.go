package wishlist

import "strconv"

// Entry is one wishlisted product. Slug is the primary lookup key; some API
// responses expose a numeric id (under either "id" or "product_id") instead,
// so both are tracked.
type Entry struct {
	Slug      string `json:"slug"`
	ID        *int64 `json:"id,omitempty"`
	ProductID *int64 `json:"product_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Image     string `json:"image,omitempty"`
	Price     *int64 `json:"price,omitempty"`
}

// memberKeys returns every key this entry registers in the membership set.
func (e Entry) memberKeys() []string {
	var keys []string
	if e.Slug != "" {
		keys = append(keys, e.Slug)
	}
	if e.ID != nil {
		keys = append(keys, idKey(*e.ID))
	}
	if e.ProductID != nil {
		keys = append(keys, idKey(*e.ProductID))
	}
	return keys
}

func idKey(id int64) string {
	return "id:" + strconv.FormatInt(id, 10)
}

// State tracks the cache lifecycle for the current user key.
type State int

const (
	StateEmpty State = iota
	StateSeeded
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSeeded:
		return "seeded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// ChangeEvent is broadcast to subscribers after a local add/remove so other
// surfaces re-derive their membership checks without re-fetching.
type ChangeEvent struct {
	UserKey string
	Slug    string
	ID      *int64
	Added   bool
}
