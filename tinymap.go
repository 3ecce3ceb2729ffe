package hamt

// TinyMap is the companion small-map representation of spec.md §4.9:
// a flat, persistent array of pairs for maps that never grow past
// tinyMapCapacity entries, with a 64-bit two-hash-slice bitmap giving
// a cheap membership pre-check and collision signal. It is a distinct
// concrete type from Map; nothing converts between the two except an
// explicit call to Assoc once it outgrows itself.
type TinyMap struct {
	keys   []Key
	vals   []interface{}
	bitmap uint64
}

// tinyMapCapacity is the pair count past which Assoc promotes to a
// Map instead of growing the linear array further.
var tinyMapCapacity = 16

// EmptyTiny returns an empty TinyMap.
func EmptyTiny() *TinyMap {
	return &TinyMap{}
}

// Count returns the number of pairs held.
func (m *TinyMap) Count() int { return len(m.keys) }

func bitPositions(h uint32) (uint, uint) {
	return uint(h & 0x3f), uint((h >> 6) & 0x3f)
}

func (m *TinyMap) maybeContains(h uint32) bool {
	p1, p2 := bitPositions(h)
	mask := uint64(1)<<p1 | uint64(1)<<p2
	return m.bitmap&mask == mask
}

// Lookup reports k's value, short-circuiting via the membership
// bitmap before ever scanning the pair array.
func (m *TinyMap) Lookup(k Key) (interface{}, bool) {
	if !m.maybeContains(k.Hash()) {
		return nil, false
	}
	for i, kk := range m.keys {
		if kk.Equal(k) {
			return m.vals[i], true
		}
	}
	return nil, false
}

// Assoc inserts or replaces k's value. The ordinary result is a new
// TinyMap (tiny is non-nil, promoted is nil); if this insertion would
// exceed tinyMapCapacity, or the hash bitmap already shows both of k's
// bit positions occupied by some other key (a double-hash conflict
// spec.md §4.9 treats as a promotion trigger rather than risking a
// false membership signal), the whole map is rebuilt as a Map via the
// transient façade instead (tiny is nil, promoted is non-nil).
func (m *TinyMap) Assoc(k Key, v interface{}) (tiny *TinyMap, promoted *Map, old interface{}, found bool) {
	for i, kk := range m.keys {
		if kk.Equal(k) {
			old := m.vals[i]
			nv := append([]interface{}(nil), m.vals...)
			nv[i] = v
			nk := append([]Key(nil), m.keys...)
			return &TinyMap{keys: nk, vals: nv, bitmap: m.bitmap}, nil, old, true
		}
	}

	h := k.Hash()
	p1, p2 := bitPositions(h)
	mask := uint64(1)<<p1 | uint64(1)<<p2
	doubleCollision := m.bitmap&mask == mask

	if len(m.keys) >= tinyMapCapacity || doubleCollision {
		mp := m.promote()
		newMap, _, _ := mp.Assoc(k, v)
		return nil, &newMap, nil, false
	}

	nk := append(append([]Key(nil), m.keys...), k)
	nv := append(append([]interface{}(nil), m.vals...), v)
	return &TinyMap{keys: nk, vals: nv, bitmap: m.bitmap | mask}, nil, nil, false
}

// Dissoc removes k, returning its prior value. The bitmap is
// recomputed from the surviving keys rather than having k's two bits
// blindly cleared, since either bit may still be held by another
// surviving key.
func (m *TinyMap) Dissoc(k Key) (*TinyMap, interface{}, bool) {
	for i, kk := range m.keys {
		if kk.Equal(k) {
			old := m.vals[i]
			nk := make([]Key, 0, len(m.keys)-1)
			nv := make([]interface{}, 0, len(m.vals)-1)
			nk = append(nk, m.keys[:i]...)
			nk = append(nk, m.keys[i+1:]...)
			nv = append(nv, m.vals[:i]...)
			nv = append(nv, m.vals[i+1:]...)
			return &TinyMap{keys: nk, vals: nv, bitmap: recomputeTinyBitmap(nk)}, old, true
		}
	}
	return m, nil, false
}

func recomputeTinyBitmap(keys []Key) uint64 {
	var bm uint64
	for _, k := range keys {
		p1, p2 := bitPositions(k.Hash())
		bm |= uint64(1)<<p1 | uint64(1)<<p2
	}
	return bm
}

// promote iterates m's pairs into a fresh Map via a single Transient
// batch, per spec.md §4.9.
func (m *TinyMap) promote() Map {
	t := Empty().AsTransient()
	for i, k := range m.keys {
		t.Assoc(k, m.vals[i])
	}
	return t.Persistent()
}
