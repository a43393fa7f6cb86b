package ipc

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Object name suffixes for the semaphore triple.
const (
	writerSuffix = "-writer"
	freeSuffix   = "-free"
	filledSuffix = "-filled"
)

// Channel is one attachment to the shared candidate ring.
type Channel struct {
	name  string
	owner bool

	mem []byte
	hdr *header

	writer *Semaphore // serializes publishers, initial 1
	free   *Semaphore // open slots, initial Capacity
	filled *Semaphore // readable slots, initial 0
}

// Create builds the shared ring and its semaphore triple. The creating
// process owns the objects and removes them with Destroy. Create fails
// if any object already exists; objects created before a failure are
// unlinked again.
func Create(name string) (*Channel, error) {
	regionPath, err := objectPath(name)
	if err != nil {
		return nil, err
	}

	c := &Channel{name: name, owner: true}
	var created []string
	fail := func(err error) (*Channel, error) {
		c.Close()
		for _, p := range created {
			_ = unlink(p)
		}
		return nil, err
	}
	mkSem := func(suffix string, value int32) (*Semaphore, error) {
		s, err := createSemaphore(name+suffix, value)
		if err != nil {
			return nil, err
		}
		p, _ := objectPath(name + suffix)
		created = append(created, p)
		return s, nil
	}

	mem, err := createMapped(regionPath, regionSize)
	if err != nil {
		return nil, err
	}
	created = append(created, regionPath)
	c.attach(mem)

	if c.writer, err = mkSem(writerSuffix, 1); err != nil {
		return fail(err)
	}
	if c.free, err = mkSem(freeSuffix, Capacity); err != nil {
		return fail(err)
	}
	if c.filled, err = mkSem(filledSuffix, 0); err != nil {
		return fail(err)
	}

	return c, nil
}

// Open attaches to an existing channel created by a supervisor.
func Open(name string) (*Channel, error) {
	path, err := objectPath(name)
	if err != nil {
		return nil, err
	}

	c := &Channel{name: name}
	mem, err := openMapped(path, regionSize)
	if err != nil {
		return nil, err
	}
	c.attach(mem)

	if c.writer, err = openSemaphore(name + writerSuffix); err != nil {
		c.Close()
		return nil, err
	}
	if c.free, err = openSemaphore(name + freeSuffix); err != nil {
		c.Close()
		return nil, err
	}
	if c.filled, err = openSemaphore(name + filledSuffix); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Exists reports whether the channel is fully initialized. The filled
// semaphore is created last, so its presence means attach will succeed.
func Exists(name string) (bool, error) {
	path, err := objectPath(name + filledSuffix)
	if err != nil {
		return false, err
	}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		if err == unix.ENOENT {
			return false, nil
		}
		return false, fmt.Errorf("ipc: stat %s: %w", path, err)
	}
	return true, nil
}

func (c *Channel) attach(mem []byte) {
	c.mem = mem
	c.hdr = (*header)(unsafe.Pointer(&mem[0]))
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// Publish appends one candidate, blocking while the ring is full or
// another publisher holds the writer lock. Candidates over MaxPairs are
// rejected before any semaphore is touched, so a rejected publish
// consumes no permit.
func (c *Channel) Publish(cand Candidate) error {
	if len(cand) > MaxPairs {
		return fmt.Errorf("%w: %d pairs", ErrTooLarge, len(cand))
	}
	if err := c.writer.Acquire(); err != nil {
		return err
	}
	if err := c.free.Acquire(); err != nil {
		c.writer.Release()
		return err
	}

	// A scribbled header word must wrap, not index past the slot array.
	wr := atomic.LoadUint32(&c.hdr.wr) % Capacity
	s := &c.hdr.slots[wr]
	s.length = uint32(len(cand))
	copy(s.pairs[:], cand)
	atomic.StoreUint32(&c.hdr.wr, (wr+1)%Capacity)

	if err := c.filled.Release(); err != nil {
		c.writer.Release()
		return err
	}
	return c.writer.Release()
}

// Consume removes the oldest candidate, blocking while the ring is
// empty. Only the single consumer may call it.
func (c *Channel) Consume() (Candidate, error) {
	if err := c.filled.Acquire(); err != nil {
		return nil, err
	}

	rd := atomic.LoadUint32(&c.hdr.rd) % Capacity
	s := &c.hdr.slots[rd]
	n := int(s.length)
	if n > MaxPairs {
		// corrupt writers cap at the slot bound
		n = MaxPairs
	}
	out := make(Candidate, n)
	copy(out, s.pairs[:n])
	atomic.StoreUint32(&c.hdr.rd, (rd+1)%Capacity)

	if err := c.free.Release(); err != nil {
		return out, err
	}
	return out, nil
}

// RequestTermination raises the shutdown flag for every attachment.
func (c *Channel) RequestTermination() {
	atomic.StoreUint32(&c.hdr.terminate, 1)
}

// Terminating reports whether shutdown was requested.
func (c *Channel) Terminating() bool {
	return atomic.LoadUint32(&c.hdr.terminate) != 0
}

// Stats snapshots the ring for diagnostics.
type Stats struct {
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	MaxPairs    int    `json:"max_pairs"`
	Read        uint32 `json:"read"`
	Write       uint32 `json:"write"`
	Free        int32  `json:"free"`
	Filled      int32  `json:"filled"`
	Terminating bool   `json:"terminating"`
}

// Stats returns a point-in-time snapshot of the ring.
func (c *Channel) Stats() Stats {
	return Stats{
		Name:        c.name,
		Capacity:    Capacity,
		MaxPairs:    MaxPairs,
		Read:        atomic.LoadUint32(&c.hdr.rd),
		Write:       atomic.LoadUint32(&c.hdr.wr),
		Free:        c.free.Value(),
		Filled:      c.filled.Value(),
		Terminating: c.Terminating(),
	}
}

// Close detaches from the shared objects without removing them.
func (c *Channel) Close() error {
	var first error
	keep := func(err error) {
		if first == nil && err != nil {
			first = err
		}
	}
	if c.writer != nil {
		keep(c.writer.close())
		c.writer = nil
	}
	if c.free != nil {
		keep(c.free.close())
		c.free = nil
	}
	if c.filled != nil {
		keep(c.filled.close())
		c.filled = nil
	}
	if c.mem != nil {
		keep(unmap(c.mem))
		c.mem, c.hdr = nil, nil
	}
	return first
}

// Destroy detaches and unlinks every object. Reserved to the creator;
// generators only ever Close.
func (c *Channel) Destroy() error {
	if !c.owner {
		return fmt.Errorf("ipc: %s: destroy called on a non-owner attachment", c.name)
	}
	err := c.Close()
	if rerr := Remove(c.name); err == nil {
		err = rerr
	}
	return err
}

// Remove unlinks the channel objects by name. Missing objects are not
// an error, so it also cleans up after crashed runs.
func Remove(name string) error {
	var first error
	for _, n := range []string{name, name + writerSuffix, name + freeSuffix, name + filledSuffix} {
		path, err := objectPath(n)
		if err != nil {
			return err
		}
		if err := unlink(path); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RemovePrefix unlinks every channel object whose name starts with
// prefix, sweeping uuid-suffixed channels left by aborted runs. It
// returns the number of objects removed.
func RemovePrefix(prefix string) (int, error) {
	base, err := objectPath(prefix)
	if err != nil {
		return 0, err
	}
	matches, err := filepath.Glob(base + "*")
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, path := range matches {
		if err := unix.Unlink(path); err != nil {
			if err == unix.ENOENT {
				continue
			}
			return removed, fmt.Errorf("ipc: unlink %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}
