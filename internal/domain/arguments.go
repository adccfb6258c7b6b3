package domain

import "maps"

// ArgumentBag carries processor specific inputs for a single attempt. Names
// are opaque here; only the processor that receives the bag reads them.
type ArgumentBag struct {
	names  []string
	values map[string]string
}

func NewArgumentBag() *ArgumentBag {
	return &ArgumentBag{values: make(map[string]string)}
}

// Set stores value under name. Setting a name twice keeps its original
// position and overwrites the value.
func (b *ArgumentBag) Set(name, value string) {
	if _, exists := b.values[name]; !exists {
		b.names = append(b.names, name)
	}
	b.values[name] = value
}

func (b *ArgumentBag) Get(name string) (string, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Names returns argument names in insertion order.
func (b *ArgumentBag) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

func (b *ArgumentBag) Len() int {
	return len(b.names)
}

// Map returns a copy of the arguments.
func (b *ArgumentBag) Map() map[string]string {
	return maps.Clone(b.values)
}
