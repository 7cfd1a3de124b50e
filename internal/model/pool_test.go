package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPoolFilterMatches(t *testing.T) {
	p := &Pool{Address: "0xA", Token: "0xT", Symbol: "USDC", Dex: "pancake"}

	cases := []struct {
		name   string
		filter PoolFilter
		want   bool
	}{
		{"empty", PoolFilter{}, true},
		{"address", PoolFilter{Address: "0xA"}, true},
		{"address mismatch", PoolFilter{Address: "0xB"}, false},
		{"symbol and dex", PoolFilter{Symbol: "USDC", Dex: "pancake"}, true},
		{"dex mismatch", PoolFilter{Symbol: "USDC", Dex: "uni"}, false},
		{"token mismatch", PoolFilter{Token: "0xX"}, false},
	}
	for _, tc := range cases {
		if got := tc.filter.Matches(p); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}

	if (PoolFilter{}).Matches(nil) {
		t.Fatalf("nil pool should not match")
	}
}

func TestPoolJSONFieldNames(t *testing.T) {
	p := Pool{
		ID:        "id-1",
		Address:   "0xA",
		Token:     "0xT",
		Symbol:    "USDC",
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"id", "address", "token", "symbol", "createdAt", "updatedAt"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %q in %s", key, data)
		}
	}
	if _, ok := decoded["name"]; ok {
		t.Fatalf("empty name should be omitted")
	}
}
