// Shared-memory placement (spec §5, "Shared memory placement"): a container
// may carry a named segment, guarded by a named mutex, released only by its
// owner. The node graph's sequence buffer itself is not placed in it.
//
// The standard library has no POSIX shared-memory primitive, and none of
// the example repos wire one either, so this is an in-process stand-in: a
// process-global registry keyed by the segment's uuid-derived name, with a
// real sync.Mutex playing the role of the named mutex. It preserves the
// contract (owner-only release, named-mutex-guarded construction) that a
// real mmap/shm_open-backed segment would need, without requiring cgo or
// platform-specific syscalls the corpus does not use anywhere. Naming uses
// github.com/google/uuid, sourced from haivivi-giztoy in the example pack
// (SPEC_FULL.md Domain Stack).
package gbz

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	registryMu sync.Mutex
	registry   = map[string]*sharedSegment{}
)

// sharedSegment is a named memory segment; only the handle returned by
// CreateSharedSegment owns it.
type sharedSegment struct {
	name  string
	mu    *sync.Mutex
	owner bool
	data  []byte
}

// CreateSharedSegment allocates a new named segment, owned by the caller,
// and registers it for other processes (in this stand-in: other callers in
// the same process) to attach to.
func CreateSharedSegment(data []byte) *sharedSegment {
	name := "gbz-" + uuid.NewString()
	seg := &sharedSegment{name: name, mu: &sync.Mutex{}, owner: true, data: data}
	registryMu.Lock()
	registry[name] = seg
	registryMu.Unlock()
	return seg
}

// AttachSharedSegment maps an existing segment by name, as a non-owning
// reader.
func AttachSharedSegment(name string) (*sharedSegment, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	seg, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("gbz: no shared segment named %q", name)
	}
	return &sharedSegment{name: name, mu: seg.mu, owner: false, data: seg.data}, nil
}

// Name returns the segment's identifier, to be shared with other mappers.
func (s *sharedSegment) Name() string { return s.name }

// Lock guards concurrent construction against readers mapping the segment
// (spec §5, "A named mutex guards concurrent construction against readers
// mapping the same segment").
func (s *sharedSegment) Lock()   { s.mu.Lock() }
func (s *sharedSegment) Unlock() { s.mu.Unlock() }

// Release detaches from the segment; only the owner actually frees it (spec
// §5, "On destruction, only the segment owner releases it; other mappers
// detach").
func (s *sharedSegment) Release() {
	if !s.owner {
		return
	}
	registryMu.Lock()
	delete(registry, s.name)
	registryMu.Unlock()
}

// WithSharedMemory records seg as c's shared segment and returns c. The node
// graph's sequence bytes stay in the container's private sequence source;
// they are not copied into or read from seg.
func (c *Container) WithSharedMemory(seg *sharedSegment) *Container {
	c.shared = seg
	return c
}

// SharedMemory returns the container's shared segment, or nil if the graph
// is privately owned.
func (c *Container) SharedMemory() *sharedSegment { return c.shared }
