package cube

// ObjectKind tags which heap-allocated variant an Object carries.
// String is the only variant the language currently needs.
type ObjectKind int

const (
	ObjString ObjectKind = iota
)

// Object is the common header every heap value shares: its kind and
// the intrusive singly-linked-list pointer the VM uses to free every
// live object on teardown. It is not a general GC; nothing is ever
// freed before the VM itself goes away.
type Object struct {
	Kind     ObjectKind
	next     *Object
	asString *ObjectString
}

// ObjectString is the sole object variant: an interned, immutable
// byte string plus its precomputed hash (used both for equality and
// as the symbol-table key when the string backs a global name).
type ObjectString struct {
	bytes []byte
	hash  uint32
}

func (s *ObjectString) String() string { return string(s.bytes) }

func (o *Object) String() string {
	switch o.Kind {
	case ObjString:
		return o.asString.String()
	}
	return "<object>"
}

func objectsEqual(a, b *Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ObjString:
		// interned strings: equal handles iff equal bytes, and
		// interning guarantees the converse too.
		return a == b
	}
	return false
}

// fnvHash is the hash function used to key both the intern set and
// the globals table. FNV-1a keeps collisions rare without needing a
// seed, which is what the symbol table's open-addressing scheme
// assumes of its key hash.
func fnvHash(data []byte) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for _, b := range data {
		h ^= uint32(b)
		h *= prime32
	}
	return h
}

// heap owns every object allocated during a single VM lifetime. It
// mirrors the intrusive list in the original C object model: every
// allocated object is prepended to `objects` so free can release them
// all at teardown.
type heap struct {
	objects *Object
	intern  *table
}

func newHeap() *heap {
	return &heap{intern: newTable()}
}

// internString returns the canonical *Object for the given bytes,
// allocating and registering a new one only the first time a given
// byte sequence is seen. Two interned strings are equal iff their
// handles are equal.
func (h *heap) internString(bytes []byte) *Object {
	hash := fnvHash(bytes)
	if v, ok := h.intern.findByBytes(bytes, hash); ok {
		return v.AsObj()
	}

	obj := &Object{
		Kind:     ObjString,
		asString: &ObjectString{bytes: append([]byte(nil), bytes...), hash: hash},
	}
	obj.next = h.objects
	h.objects = obj

	h.intern.insert(obj, ObjValue(obj))
	return obj
}

// free drops the head of the intrusive object list and replaces the
// intern set with an empty one; it does not walk the list node by
// node. Go's GC reclaims the backing memory once nothing references
// the objects anymore.
func (h *heap) free() {
	h.objects = nil
	h.intern = newTable()
}
