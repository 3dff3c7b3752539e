package protocol

// Status is the completion code of a bus transaction, as reported by the
// two-wire transport when a transfer ends.
type Status byte

// Bus status codes.
const (
	// StatusOK indicates every byte was acknowledged
	StatusOK Status = 0

	// StatusDataTooLong indicates the transfer exceeded the transport buffer
	StatusDataTooLong Status = 1

	// StatusAddressNack indicates the device address was not acknowledged
	StatusAddressNack Status = 2

	// StatusDataNack indicates a data byte was not acknowledged
	StatusDataNack Status = 3

	// StatusOther indicates any other bus error
	StatusOther Status = 4
)

func (s Status) String() string {
	return getStatusName(s)
}

// Transaction is one write transaction on the bus as seen by a device:
// a register address followed by data bytes.
type Transaction struct {
	// Address is the register or memory address
	Address uint16

	// Data is the payload written after the address
	Data []byte
}
