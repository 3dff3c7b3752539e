package project

import (
	"fmt"
	"strings"

	"github.com/moffa90/go-sigmadsp/fixed"
)

// Module is one SigmaStudio block of the parameter header.
type Module struct {
	// Name is the block name as drawn in the schematic
	Name string

	// Description is the block type, e.g. "Single SW slew vol (adjustable)"
	Description string

	// Count is the number of parameter cells the export declares
	Count int

	// Device is the IC the block runs on, e.g. "IC1"
	Device string

	// Params lists the cells in file order
	Params []Param
}

// Param is one parameter RAM cell.
type Param struct {
	// Name is the define prefix without the _ADDR/_FIXPT/_VALUE/_TYPE suffix
	Name string

	// Address is the parameter RAM address
	Address uint16

	// Raw is the 32-bit word SigmaStudio computed for the cell
	Raw uint32

	// Value is Raw tagged with the cell format
	Value fixed.Value
}

// Address returns the address of the first cell of the block, which is the
// address the block writers take.
func (m *Module) Address() uint16 {
	if len(m.Params) == 0 {
		return 0
	}
	addr := m.Params[0].Address
	for _, p := range m.Params[1:] {
		if p.Address < addr {
			addr = p.Address
		}
	}
	return addr
}

// Params is a parsed parameter header.
type Params struct {
	Modules []*Module
}

// Module returns the block with the given name. Names match case
// insensitively, with spaces and the MOD_ prefix ignored.
func (p *Params) Module(name string) (*Module, bool) {
	want := normalize(name)
	for _, m := range p.Modules {
		if normalize(m.Name) == want {
			return m, true
		}
	}
	return nil, false
}

// Param looks up a cell by its define name, with or without the MOD_ prefix.
func (p *Params) Param(name string) (Param, bool) {
	want := normalize(name)
	for _, m := range p.Modules {
		for _, c := range m.Params {
			if normalize(c.Name) == want {
				return c, true
			}
		}
	}
	return Param{}, false
}

func normalize(name string) string {
	name = strings.ToUpper(strings.ReplaceAll(name, " ", ""))
	return strings.TrimPrefix(name, "MOD_")
}

// Register is one control register of the register header.
type Register struct {
	// Name is the register name, e.g. "COREREGISTER"
	Name string

	// Address is the control register address
	Address uint16

	// Size is the register width in bytes
	Size int

	// Value is the default value
	Value uint64
}

// Bytes returns Value as Size big-endian bytes.
func (r Register) Bytes() []byte {
	out := make([]byte, r.Size)
	v := r.Value
	for i := r.Size - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// Block is one write of the default download sequence.
type Block struct {
	// Name is the data array the block is sent from
	Name string

	// Address is the first register or memory address
	Address uint16

	// RegisterSize is the width of one register of the block. Each register
	// is sent as its own transaction.
	RegisterSize int

	// Data is the payload, a whole number of registers
	Data []byte
}

func (b Block) String() string {
	return fmt.Sprintf("%s @0x%04X (%d bytes, %d-byte registers)", b.Name, b.Address, len(b.Data), b.RegisterSize)
}
