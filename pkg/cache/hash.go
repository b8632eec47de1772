package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Entry kinds lead every key so a backend can tell plans from fetched images.
const (
	KindPlan  = "plan"
	KindImage = "image"
	KindOther = "other"
)

// hashKey builds "kind:digest" where digest covers the JSON encoding of parts.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(sum[:])
}

// Hash identifies an image by the SHA-256 of its encoded bytes, so one upload
// shares a plan across URLs and file names.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// KindOf reports the entry kind of a key built by a [Keyer], looking past any
// scope prefix. Keys of another shape are [KindOther].
func KindOf(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return KindOther
	}
	switch k := parts[len(parts)-2]; k {
	case KindPlan, KindImage:
		return k
	}
	return KindOther
}
