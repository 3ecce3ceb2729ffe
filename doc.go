/*
Package hamt implements a persistent (immutable) key/value map on top
of a Hash Array Mapped Trie. Persistent is defined as immutable: every
mutating operation returns a new Map and leaves the receiver untouched,
with structural sharing between versions so that each update allocates
only the nodes along the path it touched.

A Hash Array Mapped Trie addresses up to 32 children per node using a
5-bit slice of a 32-bit key hash, for a maximum trie depth of seven
levels (shifts 0, 5, 10, ..., 30). Each node tracks, per slot, whether
that slot is empty, holds a key/value pair inline, or holds a pointer
to a child node; the inline case avoids a pointer hop for singleton
branches. Two keys whose full 32-bit hashes collide are kept together
in a flat collision node at the bottom of the trie.

Mutation goes through an editor: the persistent editor always copies,
the transient editor mutates nodes in place when they're owned by the
transient doing the mutating. A Transient batches a run of Assoc/Dissoc
calls cheaply and is published back to a persistent Map exactly once.

Map also provides a three-way structural merge: given a common
ancestor and two independently modified descendants, Merge reconciles
them key by key, calling a user-supplied function only on genuine
conflicts.
*/
package hamt

import (
	"log"
	"os"
)

// Lgr is the package logger, used only to report "should not be
// reached" internal invariant violations, never for control flow.
var Lgr = log.New(os.Stderr, "[hamt] ", log.Lshortfile)

// Nbits is the number of bits of a 32-bit hash consumed per trie
// level. 2^Nbits == 32 children per node.
const Nbits uint = 5

// TableCapacity is the number of slots in a bitmapNode: 1<<Nbits == 32.
const TableCapacity uint = 1 << Nbits

// MaxDepth is the highest level index (0-based) a trie may descend to
// before a collision node is forced: levels 0..MaxDepth, MaxDepth==6,
// for seven levels total consuming 5*6==30 bits plus the 2 remaining
// bits of the 32-bit hash at the final level.
const MaxDepth uint = 6

const assertEnabled = true

func checkInvariant(cond bool, msg string) {
	if assertEnabled {
		if !cond {
			Lgr.Panic(msg)
		}
	}
}
