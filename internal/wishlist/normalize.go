package wishlist

import "encoding/json"

// normalizeEntries unwraps the backend's inconsistent response envelopes. The
// entry array may arrive bare, under "data", or under "data.data"; anything
// else normalizes to an empty list, never an error.
func normalizeEntries(raw []byte) []Entry {
	if len(raw) == 0 {
		return []Entry{}
	}

	if entries, ok := decodeEntryList(raw); ok {
		return entries
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Data) == 0 {
		return []Entry{}
	}

	if entries, ok := decodeEntryList(envelope.Data); ok {
		return entries
	}

	var nested struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(envelope.Data, &nested); err != nil || len(nested.Data) == 0 {
		return []Entry{}
	}
	if entries, ok := decodeEntryList(nested.Data); ok {
		return entries
	}

	return []Entry{}
}

func decodeEntryList(raw []byte) ([]Entry, bool) {
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, true
}
