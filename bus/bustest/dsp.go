package bustest

import (
	"encoding/binary"

	"github.com/moffa90/go-sigmadsp/fixed"
	"github.com/moffa90/go-sigmadsp/protocol"
)

// Staged is one safeload slot as it was when a transfer was initiated.
type Staged struct {
	Slot    int
	Address uint16
	Word    fixed.Word
}

// Commit is one safeload transfer into parameter RAM.
type Commit struct {
	Entries []Staged
}

// Addresses returns the parameter addresses updated by c, in slot order.
func (c Commit) Addresses() []uint16 {
	out := make([]uint16, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Address
	}
	return out
}

// DSP simulates the control port of an ADAU1701: parameter RAM, program RAM,
// the safeload staging registers and the control registers.
type DSP struct {
	// Params is parameter RAM, one 32-bit word per address
	Params [protocol.ParamRAMSize]uint32

	// Program is program RAM, one 5-byte instruction per address
	Program [protocol.ProgramRAMSize][protocol.ProgramWordSize]byte

	// Commits lists every safeload transfer in order
	Commits []Commit

	// Capture holds the 5.19 values returned by the data capture registers
	Capture map[uint16]float64

	safeloadData [protocol.SafeloadSlots]fixed.Word
	safeloadAddr [protocol.SafeloadSlots]uint16
	dataWritten  [protocol.SafeloadSlots]bool
	addrWritten  [protocol.SafeloadSlots]bool

	registers map[uint16][]byte
	pointer   uint16
}

// NewDSP creates a DSP with cleared memories.
func NewDSP() *DSP {
	return &DSP{
		Capture:   make(map[uint16]float64),
		registers: make(map[uint16][]byte),
	}
}

// Write implements Device.
func (d *DSP) Write(data []byte) protocol.Status {
	if len(data) == 0 {
		return protocol.StatusOK
	}
	if len(data) < protocol.AddressSize {
		return protocol.StatusDataNack
	}

	address := binary.BigEndian.Uint16(data)
	payload := data[protocol.AddressSize:]
	d.pointer = address
	if len(payload) == 0 {
		return protocol.StatusOK
	}

	switch {
	case address < protocol.ParamRAMStart+protocol.ParamRAMSize:
		return d.writeParams(address, payload)
	case address >= protocol.ProgramRAMStart && address < protocol.ProgramRAMStart+protocol.ProgramRAMSize:
		return d.writeProgram(address, payload)
	case address >= protocol.RegSafeloadData0 && address < protocol.RegSafeloadData0+protocol.SafeloadSlots:
		if len(payload) != protocol.SafeloadDataSize {
			return protocol.StatusDataNack
		}
		slot := int(address - protocol.RegSafeloadData0)
		copy(d.safeloadData[slot][:], payload)
		d.dataWritten[slot] = true
	case address >= protocol.RegSafeloadAddress0 && address < protocol.RegSafeloadAddress0+protocol.SafeloadSlots:
		if len(payload) != protocol.SafeloadAddressSize {
			return protocol.StatusDataNack
		}
		slot := int(address - protocol.RegSafeloadAddress0)
		d.safeloadAddr[slot] = binary.BigEndian.Uint16(payload)
		d.addrWritten[slot] = true
	case address == protocol.RegCore:
		if len(payload) != protocol.CoreRegisterSize {
			return protocol.StatusDataNack
		}
		d.registers[address] = append([]byte(nil), payload...)
		if binary.BigEndian.Uint16(payload)&coreInitiateTransfer != 0 {
			d.transfer()
		}
	default:
		d.registers[address] = append([]byte(nil), payload...)
	}
	return protocol.StatusOK
}

// coreInitiateTransfer is the IST bit of the core control register.
const coreInitiateTransfer = 0x0020

func (d *DSP) writeParams(address uint16, payload []byte) protocol.Status {
	if len(payload)%protocol.ParamWordSize != 0 {
		return protocol.StatusDataNack
	}
	for i := 0; i < len(payload); i += protocol.ParamWordSize {
		a := int(address) + i/protocol.ParamWordSize
		if a >= protocol.ParamRAMSize {
			return protocol.StatusDataNack
		}
		d.Params[a] = binary.BigEndian.Uint32(payload[i:])
	}
	return protocol.StatusOK
}

func (d *DSP) writeProgram(address uint16, payload []byte) protocol.Status {
	if len(payload)%protocol.ProgramWordSize != 0 {
		return protocol.StatusDataNack
	}
	base := int(address - protocol.ProgramRAMStart)
	for i := 0; i < len(payload); i += protocol.ProgramWordSize {
		a := base + i/protocol.ProgramWordSize
		if a >= protocol.ProgramRAMSize {
			return protocol.StatusDataNack
		}
		copy(d.Program[a][:], payload[i:i+protocol.ProgramWordSize])
	}
	return protocol.StatusOK
}

// transfer copies every slot written since the last transfer into
// parameter RAM.
func (d *DSP) transfer() {
	var c Commit
	for slot := 0; slot < protocol.SafeloadSlots; slot++ {
		if !d.dataWritten[slot] || !d.addrWritten[slot] {
			continue
		}
		e := Staged{Slot: slot, Address: d.safeloadAddr[slot], Word: d.safeloadData[slot]}
		if int(e.Address) < protocol.ParamRAMSize {
			d.Params[e.Address] = binary.BigEndian.Uint32(e.Word[1:])
		}
		c.Entries = append(c.Entries, e)
		d.dataWritten[slot] = false
		d.addrWritten[slot] = false
	}
	d.Commits = append(d.Commits, c)
}

// Read implements Device. Reads start at the address set by the preceding
// address-only write.
func (d *DSP) Read(n int) []byte {
	var src []byte
	switch {
	case d.pointer < protocol.ParamRAMSize:
		src = make([]byte, 0, n+protocol.ParamWordSize)
		for a := int(d.pointer); len(src) < n && a < protocol.ParamRAMSize; a++ {
			src = binary.BigEndian.AppendUint32(src, d.Params[a])
		}
	case d.pointer == protocol.RegDataCapture0 || d.pointer == protocol.RegDataCapture1:
		raw := int32(d.Capture[d.pointer] * (1 << 19))
		src = []byte{byte(raw >> 16), byte(raw >> 8), byte(raw)}
	default:
		src = d.registers[d.pointer]
	}

	out := make([]byte, n)
	copy(out, src)
	return out
}

// Param returns parameter address as a 5.23 value.
func (d *DSP) Param(address uint16) float64 {
	return fixed.Decode(d.ParamWord(address))
}

// ParamInt returns parameter address as a 28.0 value.
func (d *DSP) ParamInt(address uint16) int32 {
	return int32(d.Params[address])
}

// ParamWord returns parameter address as a wire word.
func (d *DSP) ParamWord(address uint16) fixed.Word {
	return fixed.EncodeInt(int32(d.Params[address]))
}

// Register returns the last bytes written to a control register.
func (d *DSP) Register(address uint16) []byte {
	return d.registers[address]
}

// Pending reports how many safeload slots are staged but not transferred.
func (d *DSP) Pending() int {
	n := 0
	for slot := range d.dataWritten {
		if d.dataWritten[slot] || d.addrWritten[slot] {
			n++
		}
	}
	return n
}
