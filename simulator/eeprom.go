// Package simulator provides an in-memory serial EEPROM that speaks the
// two-byte address protocol over an io.ReadWriter.
//
// The simulated part behaves like a 24Cxx device on a shared bus: page
// writes wrap inside their page, the device refuses every transaction for a
// configurable number of attempts after each page write, and faults such as
// NACKs or short transfers can be queued to exercise retry paths.
package simulator

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/moffa90/go-i2ceeprom/protocol"
)

// ErrNACK is returned when the simulated device does not acknowledge a transaction.
var ErrNACK = errors.New("simulator: device did not acknowledge")

// Op identifies the direction of a raw transaction.
type Op int

// Raw transaction directions.
const (
	OpWrite Op = iota
	OpRead
)

func (o Op) String() string {
	if o == OpRead {
		return "read"
	}
	return "write"
}

// Transaction is one raw bus transaction as seen by the device.
type Transaction struct {
	Op Op

	// Pointer is the device address pointer when the transaction started
	Pointer int

	// Length is the number of bytes the master asked to move
	Length int

	// N is the number of bytes the device reported as moved
	N int

	// Err is the error returned to the master, nil on success
	Err error
}

// Fault makes the next Count transactions of direction Op fail.
// A nil Err with Transferred below the request length is a short transfer.
type Fault struct {
	Op          Op
	Count       int
	Transferred int
	Err         error
}

// Stats summarizes traffic seen by the device.
type Stats struct {
	Writes       int
	Reads        int
	FailedWrites int
	FailedReads  int

	// MaxWriteData is the largest data portion (excluding address bytes) of any page write
	MaxWriteData int

	// MaxRead is the largest raw read
	MaxRead int
}

// Option configures an EEPROM.
type Option func(*EEPROM)

// WithBusyCycles sets how many transactions the device refuses after each page write.
func WithBusyCycles(n int) Option {
	return func(e *EEPROM) {
		if n >= 0 {
			e.busyCycles = n
		}
	}
}

// WithContents preloads the device memory. Extra bytes are ignored.
func WithContents(data []byte) Option {
	return func(e *EEPROM) {
		copy(e.mem, data)
	}
}

// EEPROM is a simulated serial EEPROM. It is safe for concurrent use.
type EEPROM struct {
	mu sync.Mutex

	geom       protocol.Geometry
	pageSize   int
	mem        []byte
	pointer    int
	busyCycles int
	busy       int
	faults     []Fault
	log        []Transaction
	stats      Stats
}

// New creates a simulated device with geometry g, erased to 0xFF.
func New(g protocol.Geometry, opts ...Option) *EEPROM {
	e := &EEPROM{
		geom:       g,
		pageSize:   min(g.PageSize, g.Size),
		mem:        make([]byte, g.Size),
		busyCycles: 2,
	}
	for i := range e.mem {
		e.mem[i] = 0xFF
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Write performs a raw write. Two bytes set the address pointer; further
// bytes are committed into the addressed page, wrapping at its end. A page
// larger than the device wraps at the device end.
func (e *EEPROM) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats.Writes++
	if n, failed, err := e.fail(OpWrite, len(p)); failed {
		return n, err
	}

	if len(p) < protocol.AddressSize {
		e.record(OpWrite, len(p), len(p), nil)
		return len(p), nil
	}

	addr := int(binary.BigEndian.Uint16(p)) % e.geom.Size
	data := p[protocol.AddressSize:]
	e.pointer = addr

	if len(data) > 0 {
		base := addr - addr%e.pageSize
		col := addr - base
		for i, b := range data {
			e.mem[(base+(col+i)%e.pageSize)%e.geom.Size] = b
		}
		e.pointer = (base + (col+len(data))%e.pageSize) % e.geom.Size
		e.busy = e.busyCycles
		if len(data) > e.stats.MaxWriteData {
			e.stats.MaxWriteData = len(data)
		}
	}

	e.log = append(e.log, Transaction{Op: OpWrite, Pointer: addr, Length: len(p), N: len(p)})
	return len(p), nil
}

// Read performs a sequential raw read from the address pointer, wrapping at
// the end of the device.
func (e *EEPROM) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats.Reads++
	if n, failed, err := e.fail(OpRead, len(p)); failed {
		return n, err
	}

	e.record(OpRead, len(p), len(p), nil)
	for i := range p {
		p[i] = e.mem[e.pointer]
		e.pointer = (e.pointer + 1) % e.geom.Size
	}
	if len(p) > e.stats.MaxRead {
		e.stats.MaxRead = len(p)
	}

	return len(p), nil
}

// Close implements io.Closer. The simulated device holds no resources.
func (e *EEPROM) Close() error {
	return nil
}

// fail applies queued faults and the post-write busy period.
func (e *EEPROM) fail(op Op, length int) (int, bool, error) {
	if i := e.nextFault(op); i >= 0 {
		f := &e.faults[i]
		f.Count--
		n, err := f.Transferred, f.Err
		if n > length {
			n = length
		}
		if f.Count <= 0 {
			e.faults = append(e.faults[:i], e.faults[i+1:]...)
		}
		e.countFailure(op)
		e.record(op, length, n, err)
		return n, true, err
	}

	if e.busy > 0 {
		e.busy--
		e.countFailure(op)
		e.record(op, length, 0, ErrNACK)
		return 0, true, ErrNACK
	}

	return 0, false, nil
}

// nextFault returns the index of the first queued fault for op, or -1.
func (e *EEPROM) nextFault(op Op) int {
	for i, f := range e.faults {
		if f.Op == op {
			return i
		}
	}
	return -1
}

func (e *EEPROM) countFailure(op Op) {
	if op == OpRead {
		e.stats.FailedReads++
	} else {
		e.stats.FailedWrites++
	}
}

func (e *EEPROM) record(op Op, length, n int, err error) {
	e.log = append(e.log, Transaction{Op: op, Pointer: e.pointer, Length: length, N: n, Err: err})
}

// InjectFault queues f. Faults apply in order to transactions of matching direction.
func (e *EEPROM) InjectFault(f Fault) {
	if f.Count <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.faults = append(e.faults, f)
}

// SetPointer moves the device address pointer as another bus master would.
func (e *EEPROM) SetPointer(addr int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointer = addr % e.geom.Size
}

// Contents returns a copy of the device memory.
func (e *EEPROM) Contents() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]byte(nil), e.mem...)
}

// Stats returns the traffic counters.
func (e *EEPROM) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Transactions returns a copy of the transaction log.
func (e *EEPROM) Transactions() []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Transaction(nil), e.log...)
}

// ResetStats clears the counters and the transaction log.
func (e *EEPROM) ResetStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats = Stats{}
	e.log = nil
}
