package table

// DefaultKeyWindow is how many idempotency keys a session remembers.
const DefaultKeyWindow = 128

// keyWindow remembers the most recent idempotency keys in arrival order.
type keyWindow struct {
	size  int
	order []string
	seen  map[string]struct{}
}

func newKeyWindow(size int) *keyWindow {
	if size <= 0 {
		size = DefaultKeyWindow
	}
	return &keyWindow{size: size, seen: make(map[string]struct{}, size)}
}

func (w *keyWindow) contains(key string) bool {
	_, ok := w.seen[key]
	return ok
}

func (w *keyWindow) add(key string) {
	if key == "" || w.contains(key) {
		return
	}
	if len(w.order) == w.size {
		delete(w.seen, w.order[0])
		w.order = w.order[1:]
	}
	w.order = append(w.order, key)
	w.seen[key] = struct{}{}
}

func (w *keyWindow) keys() []string {
	return append([]string(nil), w.order...)
}
