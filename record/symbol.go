package record

import (
	"encoding/binary"
	"fmt"
)

// SymbolValueRecord is an address recorded by sym(), mod(), usym() or umod().
// Identity is the address plus, for user symbols, the process ID. The symbol
// text is filled in by symbolication and may be empty.
type SymbolValueRecord struct {
	user    bool
	pid     int
	address uint64
	symbol  string
}

var _ ValueRecord = (*SymbolValueRecord)(nil)

// NewKernelSymbolRecord returns a kernel symbol record.
func NewKernelSymbolRecord(address uint64, symbol string) *SymbolValueRecord {
	return &SymbolValueRecord{address: address, symbol: symbol}
}

// NewUserSymbolRecord returns a symbol record for an address in process pid.
func NewUserSymbolRecord(pid int, address uint64, symbol string) *SymbolValueRecord {
	return &SymbolValueRecord{user: true, pid: pid, address: address, symbol: symbol}
}

func (*SymbolValueRecord) isValueRecord() {}

func (r *SymbolValueRecord) IsUser() bool {
	return r.user
}

func (r *SymbolValueRecord) PID() int {
	return r.pid
}

func (r *SymbolValueRecord) Address() uint64 {
	return r.address
}

// Symbol returns the resolved symbol, or "" if it was not resolved.
func (r *SymbolValueRecord) Symbol() string {
	return r.symbol
}

// Value returns the address.
func (r *SymbolValueRecord) Value() any {
	return r.address
}

func (r *SymbolValueRecord) Equal(other ValueRecord) bool {
	o, ok := other.(*SymbolValueRecord)
	if !ok || o == nil {
		return false
	}
	return r.user == o.user && r.pid == o.pid && r.address == o.address
}

func (r *SymbolValueRecord) Hash() uint64 {
	return hashWithTag(KindSymbol, r.identity())
}

func (r *SymbolValueRecord) identity() []byte {
	b := make([]byte, 17)
	if r.user {
		b[0] = 1
	}
	binary.LittleEndian.PutUint64(b[1:], uint64(r.pid))
	binary.LittleEndian.PutUint64(b[9:], r.address)
	return b
}

func (r *SymbolValueRecord) String() string {
	if r.symbol != "" {
		return r.symbol
	}
	return fmt.Sprintf("0x%x", r.address)
}
