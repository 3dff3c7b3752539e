package protocol

// Default I²C addresses (7-bit) as strapped on common ADAU1701 boards.
const (
	// DefaultDSPAddress is the DSP address with ADDR0/ADDR1 low (0x68 in 8-bit notation)
	DefaultDSPAddress = 0x34

	// DefaultEEPROMAddress is the 24xx boot EEPROM address (0xA0 in 8-bit notation)
	DefaultEEPROMAddress = 0x50
)

// Transport limits.
const (
	// AddressSize is the size of a register/memory address on the bus
	AddressSize = 2

	// MaxTransferSize is the largest single write transaction, address bytes included.
	// This matches the 32-byte buffer of the common two-wire implementations.
	MaxTransferSize = 32

	// MaxDataSize is the largest data payload of a single write transaction
	MaxDataSize = MaxTransferSize - AddressSize
)

// Memory map of the ADAU1701 parameter and program RAM.
const (
	// ParamRAMStart is the first parameter RAM address
	ParamRAMStart = 0x0000

	// ParamRAMSize is the number of 4-byte parameter words
	ParamRAMSize = 1024

	// ProgramRAMStart is the first program RAM address
	ProgramRAMStart = 0x0400

	// ProgramRAMSize is the number of 5-byte program words
	ProgramRAMSize = 1024

	// ParamWordSize is the size of a parameter RAM word on a direct write
	ParamWordSize = 4

	// ProgramWordSize is the size of a program RAM word
	ProgramWordSize = 5
)

// Control registers of the ADAU1701, named after the SigmaStudio export.
const (
	// RegInterface0 is the first of eight 4-byte interface registers (0x0800-0x0807)
	RegInterface0 = 0x0800

	// RegGPIOAll holds all GPIO pin values (2 bytes)
	RegGPIOAll = 0x0808

	// RegADC0 is the first of four auxiliary ADC registers (0x0809-0x080C, 1 byte each)
	RegADC0 = 0x0809

	// RegSafeloadData0 is the first of five safeload data slots (5 bytes each)
	RegSafeloadData0 = 0x0810

	// RegSafeloadAddress0 is the first of five safeload address slots (2 bytes each)
	RegSafeloadAddress0 = 0x0815

	// RegDataCapture0 is the first data capture (readback) register (2 bytes write, 3 bytes read)
	RegDataCapture0 = 0x081A

	// RegDataCapture1 is the second data capture register
	RegDataCapture1 = 0x081B

	// RegCore is the DSP core control register (2 bytes)
	RegCore = 0x081C

	// RegRAM is the RAM configuration register (1 byte)
	RegRAM = 0x081D

	// RegSerialOut is the serial output control register (2 bytes)
	RegSerialOut = 0x081E

	// RegSerialIn is the serial input control register (1 byte)
	RegSerialIn = 0x081F

	// RegMPConfig0 is the first multipurpose pin configuration register (3 bytes)
	RegMPConfig0 = 0x0820

	// RegMPConfig1 is the second multipurpose pin configuration register (3 bytes)
	RegMPConfig1 = 0x0821

	// RegAnalogPowerDown is the analog power-down register (2 bytes)
	RegAnalogPowerDown = 0x0822

	// RegTest is the test register (2 bytes)
	RegTest = 0x0823

	// RegAnalogInterface0 is the first of four analog interface registers (0x0824-0x0827)
	RegAnalogInterface0 = 0x0824
)

// Safeload mechanism.
const (
	// SafeloadSlots is the number of staging slots committed by one transfer
	SafeloadSlots = 5

	// SafeloadAddressSize is the size of a safeload address slot
	SafeloadAddressSize = 2

	// SafeloadDataSize is the size of a safeload data slot
	SafeloadDataSize = 5

	// CoreInitiateSafeload is the core register value that starts the safeload transfer
	// (IST bit plus the default ADM/DAM/CR bits)
	CoreInitiateSafeload = 0x003C

	// CoreRegisterSize is the size of the core control register
	CoreRegisterSize = 2
)

// EEPROM layout.
const (
	// EEPROMEraseExtent is the end (exclusive) of the area cleared after an image
	// is written. A SigmaDSP boot image never exceeds 9248 bytes.
	EEPROMEraseExtent = 0x2000

	// EEPROMEmptyByte is the value of erased EEPROM cells
	EEPROMEmptyByte = 0xFF
)

// eepromVersionAddress maps EEPROM capacity in kbit to the last byte address,
// which holds the firmware version tag.
var eepromVersionAddress = map[int]uint16{
	64:  0x1FFF,
	128: 0x3FFF,
	256: 0x7FFF,
	512: 0xFFFF,
}

// EEPROMVersionAddress returns the version tag address for an EEPROM of the
// given capacity in kbit, and false if the capacity is not supported.
func EEPROMVersionAddress(kbit int) (uint16, bool) {
	addr, ok := eepromVersionAddress[kbit]
	return addr, ok
}
