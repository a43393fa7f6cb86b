/*
Package ipc implements the shared-memory candidate channel between the
supervisor and its generators.

# Overview

The channel is a fixed-capacity circular buffer of candidate slots in a
named shared-memory region, guarded by three counting semaphores. Any
number of generator processes publish into it; exactly one supervisor
process consumes from it in FIFO order over completed publishes.

Everything lives in tmpfs under /dev/shm, the same place shm_open puts
its objects. Each semaphore is a 4-byte mapped file holding the count;
contended acquisitions park on a futex, so a blocked process costs
nothing until a counterpart posts.

# Layout

The region is a cross-process ABI and its layout is compile-time fixed:

	offset 0   terminate  uint32   shutdown flag, supervisor-written
	offset 4   rd         uint32   next slot to consume, supervisor-only
	offset 8   wr         uint32   next slot to fill, writer-lock guarded
	offset 12  slots      [200]slot

	slot: length uint32, pairs [8][2]int32   (68 bytes)

# Protocol

Publish: acquire the writer lock, acquire one free permit, write the
slot at wr, advance wr, release one filled permit, release the writer
lock. Consume: acquire one filled permit, read the slot at rd, advance
rd, release one free permit. The single consumer needs no lock.

Candidates above MaxPairs are rejected before any semaphore is touched,
so a rejected publish consumes no permit. Interrupted semaphore waits
are reissued in place; a signal never restarts a publish from the
writer lock.

# Lifecycle

Create builds the region and semaphores (failing if any object already
exists) and is reserved to the supervisor, which alone unlinks them via
Destroy. Generators attach with Open and detach with Close. Remove
sweeps the named objects without attaching, for crash recovery.
*/
package ipc
