package queue

import "container/list"

// location records which queue currently holds a live notification and
// where, for O(1) cross-queue lookup by id.
type location struct {
	queue *list.List
	elem  *list.Element
}

// registry owns the id namespace: it assigns ids monotonically (never
// reusing 0) and maps each live id to its queue position. History entries
// are not tracked; their ids are retired on close.
type registry struct {
	lastID uint32
	byID   map[uint32]location
}

func newRegistry() *registry {
	return &registry{byID: make(map[uint32]location)}
}

// nextID returns a fresh id, skipping 0 on wraparound.
func (r *registry) nextID() uint32 {
	r.lastID++
	if r.lastID == 0 {
		r.lastID = 1
	}
	return r.lastID
}

// observe ratchets the counter past a caller-supplied id so freshly
// assigned ids stay strictly greater than anything already seen.
func (r *registry) observe(id uint32) {
	if id > r.lastID {
		r.lastID = id
	}
}

// track records or updates the location of a live notification.
func (r *registry) track(id uint32, q *list.List, e *list.Element) {
	r.byID[id] = location{queue: q, elem: e}
}

// lookup returns the location of a live notification.
func (r *registry) lookup(id uint32) (location, bool) {
	loc, ok := r.byID[id]
	return loc, ok
}

// retire removes an id from the live set.
func (r *registry) retire(id uint32) {
	delete(r.byID, id)
}

// reset drops all live tracking but keeps the id counter, so ids are
// never reused within a process even across a teardown.
func (r *registry) reset() {
	r.byID = make(map[uint32]location)
}
