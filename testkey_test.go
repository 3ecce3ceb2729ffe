package hamt

import "fmt"

// fixedHashKey lets tests force a specific 32-bit hash, independent of
// its string identity, so collisions and deep chains can be
// constructed deterministically instead of searched for.
type fixedHashKey struct {
	id string
	h  uint32
}

func fk(id string, h uint32) fixedHashKey { return fixedHashKey{id: id, h: h} }

func (k fixedHashKey) Hash() uint32 { return k.h }

func (k fixedHashKey) Equal(other Key) bool {
	o, ok := other.(fixedHashKey)
	return ok && k.id == o.id
}

func (k fixedHashKey) String() string { return fmt.Sprintf("fixedHashKey(%s,%08x)", k.id, k.h) }
