package domain

import "encoding/json"

// Vector is a fixed-dimension text embedding. The zero-length vector is the
// designated absent sentinel: it means "no embedding", which is distinct from
// an embedding whose components all happen to be zero.
type Vector []float32

// AbsentVector is returned for text that cannot be embedded (blank input,
// provider failure). It compares as zero-similar to everything.
var AbsentVector = Vector(nil)

func (v Vector) Absent() bool {
	return len(v) == 0
}

// MarshalText serializes the vector as a JSON array for storage in a text
// column. Absent vectors serialize to the empty string, which the stores map
// to NULL.
func (v Vector) MarshalText() (string, error) {
	if v.Absent() {
		return "", nil
	}
	raw, err := json.Marshal([]float32(v))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// UnmarshalVector parses a stored JSON array back into a Vector. Empty or
// malformed payloads yield the absent sentinel rather than an error: a row
// with a broken embedding is simply excluded from retrieval.
func UnmarshalVector(raw string) Vector {
	if raw == "" {
		return AbsentVector
	}
	var v []float32
	if err := json.Unmarshal([]byte(raw), &v); err != nil || len(v) == 0 {
		return AbsentVector
	}
	return Vector(v)
}
