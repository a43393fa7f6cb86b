package ipc

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// semSize is one futex word.
const semSize = 4

// Semaphore is a counting semaphore shared between processes. The count
// lives in a 4-byte mapped object; contended paths park on a futex. The
// futex is not process-private, so attachments from different processes
// wake each other.
type Semaphore struct {
	name string
	mem  []byte
	word *int32
}

func attachSemaphore(name string, mem []byte) *Semaphore {
	return &Semaphore{
		name: name,
		mem:  mem,
		word: (*int32)(unsafe.Pointer(&mem[0])),
	}
}

// createSemaphore creates the named semaphore with an initial count.
func createSemaphore(name string, value int32) (*Semaphore, error) {
	path, err := objectPath(name)
	if err != nil {
		return nil, err
	}
	mem, err := createMapped(path, semSize)
	if err != nil {
		return nil, err
	}
	s := attachSemaphore(name, mem)
	atomic.StoreInt32(s.word, value)
	return s, nil
}

// openSemaphore attaches to an existing named semaphore.
func openSemaphore(name string) (*Semaphore, error) {
	path, err := objectPath(name)
	if err != nil {
		return nil, err
	}
	mem, err := openMapped(path, semSize)
	if err != nil {
		return nil, err
	}
	return attachSemaphore(name, mem), nil
}

// Acquire decrements the count, blocking while it is zero. Interrupted
// waits are reissued in place; the Go runtime's preemption signal makes
// EINTR routine here.
func (s *Semaphore) Acquire() error {
	for {
		v := atomic.LoadInt32(s.word)
		if v > 0 {
			if atomic.CompareAndSwapInt32(s.word, v, v-1) {
				return nil
			}
			continue
		}
		if err := futexWait(s.word, 0); err != nil && err != unix.EINTR && err != unix.EAGAIN {
			return fmt.Errorf("ipc: wait %s: %w", s.name, err)
		}
	}
}

// Release increments the count and wakes one waiter.
func (s *Semaphore) Release() error {
	atomic.AddInt32(s.word, 1)
	if err := futexWake(s.word, 1); err != nil {
		return fmt.Errorf("ipc: wake %s: %w", s.name, err)
	}
	return nil
}

// Value reads the current count. Diagnostic only; it is stale by the
// time the caller sees it.
func (s *Semaphore) Value() int32 {
	return atomic.LoadInt32(s.word)
}

// close detaches from the count without removing the object.
func (s *Semaphore) close() error {
	mem := s.mem
	s.mem, s.word = nil, nil
	if mem == nil {
		return nil
	}
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("ipc: unmap %s: %w", s.name, err)
	}
	return nil
}

// Futex op codes from linux/futex.h; x/sys/unix exports the syscall
// number but not the ops. The non-private forms are required so waiters
// in other processes are woken.
const (
	futexOpWait = 0
	futexOpWake = 1
)

// futexWait parks the caller while the word equals val. Returns EINTR
// on signal delivery and EAGAIN when the word changed before parking.
func futexWait(word *int32, val int32) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(word)),
		futexOpWait,
		uintptr(val),
		0, 0, 0,
	)
	if errno != 0 {
		return errno
	}
	return nil
}

// futexWake wakes up to n waiters parked on the word.
func futexWake(word *int32, n int32) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(word)),
		futexOpWake,
		uintptr(n),
		0, 0, 0,
	)
	if errno != 0 {
		return errno
	}
	return nil
}
