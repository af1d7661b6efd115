package memory

import (
	"encoding/json"
	"fmt"
)

// Buckets names the JSON rows a durable store keeps for one snapshot.
var Buckets = []string{"elements", "schedules", "globals"}

func (s *Snapshot) bucket(name string) (any, bool) {
	switch name {
	case "elements":
		return &s.Elements, true
	case "schedules":
		return &s.Schedules, true
	case "globals":
		return &s.Globals, true
	}
	return nil, false
}

// EncodeBuckets marshals every bucket of snap.
func EncodeBuckets(snap Snapshot) (map[string][]byte, error) {
	out := make(map[string][]byte, len(Buckets))
	for _, name := range Buckets {
		target, _ := snap.bucket(name)
		data, err := json.Marshal(target)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

// DecodeBucket unmarshals payload into the named bucket of snap. Unknown
// buckets and empty payloads are ignored.
func DecodeBucket(snap *Snapshot, name string, payload []byte) error {
	target, ok := snap.bucket(name)
	if !ok || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
