package cube

// table is the open-addressing hash table spec.md 4.5 describes, used
// for both purposes the VM needs a string-keyed map: the intern set
// (heap.intern) and the interpreter's global-variable store. The
// scheme follows the original table.c: linear probing, tombstones on
// delete, grow-and-rehash at load factor 0.75.
//
// Keys are *Object string handles (not raw bytes) except during
// interning itself, when the candidate string hasn't been allocated
// yet; findByBytes supports that lookup without allocating.
type table struct {
	count    int
	entries  []entry
}

type entry struct {
	key   *Object // nil: never used; tombstone: key == tombstoneKey
	value Value
}

// tombstoneKey marks a deleted slot. It is distinguished from "empty"
// (nil) so probing can keep walking past it, and from any real key
// since no allocator ever returns this address to internString.
var tombstoneKey = &Object{}

const tableMaxLoad = 0.75

func newTable() *table {
	return &table{}
}

func (t *table) capacity() int { return len(t.entries) }

// findEntry implements linear probing starting at hash%capacity,
// returning the slot where key either already lives or should be
// inserted (reusing the first tombstone seen along the way).
func findEntry(entries []entry, capacity int, keyHash uint32, matches func(*Object) bool) int {
	index := int(keyHash) % capacity
	var tombstone = -1
	for {
		e := &entries[index]
		if e.key == nil {
			if tombstone != -1 {
				return tombstone
			}
			return index
		} else if e.key == tombstoneKey {
			if tombstone == -1 {
				tombstone = index
			}
		} else if matches(e.key) {
			return index
		}
		index = (index + 1) % capacity
	}
}

func (t *table) grow(newCapacity int) {
	entries := make([]entry, newCapacity)
	oldEntries := t.entries
	t.count = 0
	for i := range entries {
		entries[i].key = nil
	}
	for _, e := range oldEntries {
		if e.key == nil || e.key == tombstoneKey {
			continue
		}
		idx := findEntry(entries, newCapacity, e.key.asString.hash, func(k *Object) bool { return k == e.key })
		entries[idx].key = e.key
		entries[idx].value = e.value
		t.count++
	}
	t.entries = entries
}

func (t *table) ensureCapacity() {
	if float64(t.count+1) <= float64(t.capacity())*tableMaxLoad {
		return
	}
	newCap := 8
	if t.capacity() > 0 {
		newCap = t.capacity() * 2
	}
	t.grow(newCap)
}

// insert sets key's value, growing the table first if needed. Returns
// true if this created a brand new entry (used to distinguish define
// from redefine at the call sites that care).
func (t *table) insert(key *Object, value Value) bool {
	t.ensureCapacity()
	idx := findEntry(t.entries, t.capacity(), key.asString.hash, func(k *Object) bool { return k == key })
	e := &t.entries[idx]
	isNew := e.key == nil || e.key == tombstoneKey
	if e.key == nil {
		t.count++
	}
	e.key = key
	e.value = value
	return isNew
}

// search looks up key, returning its value and whether it was found.
func (t *table) search(key *Object) (Value, bool) {
	if t.count == 0 {
		return Value{}, false
	}
	idx := findEntry(t.entries, t.capacity(), key.asString.hash, func(k *Object) bool { return k == key })
	e := &t.entries[idx]
	if e.key == nil {
		return Value{}, false
	}
	return e.value, true
}

// findByBytes looks a string value up by its raw byte content,
// without requiring the caller to have allocated an Object first.
// This is how the intern set checks "have I seen this exact string
// before" for a literal that's still just scanner output.
func (t *table) findByBytes(bytes []byte, hash uint32) (Value, bool) {
	if t.count == 0 {
		return Value{}, false
	}
	idx := findEntry(t.entries, t.capacity(), hash, func(k *Object) bool {
		s := k.asString
		return s.hash == hash && string(s.bytes) == string(bytes)
	})
	e := &t.entries[idx]
	if e.key == nil {
		return Value{}, false
	}
	return e.value, true
}

// delete removes key, leaving a tombstone behind so later probes for
// other keys that hashed into the same bucket still find them.
func (t *table) delete(key *Object) bool {
	if t.count == 0 {
		return false
	}
	idx := findEntry(t.entries, t.capacity(), key.asString.hash, func(k *Object) bool { return k == key })
	e := &t.entries[idx]
	if e.key == nil {
		return false
	}
	e.key = tombstoneKey
	e.value = BoolValue(true) // non-nil sentinel so tombstones aren't mistaken for unused slots
	return true
}

// merge copies every live entry of src into dst, overwriting dst's
// existing values on key collision. Deterministic and idempotent:
// running it twice with the same src leaves dst unchanged the second
// time.
func merge(dst, src *table) {
	for _, e := range src.entries {
		if e.key == nil || e.key == tombstoneKey {
			continue
		}
		dst.insert(e.key, e.value)
	}
}
