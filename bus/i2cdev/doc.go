// Package i2cdev implements bus.Bus on Linux i2c-dev character devices using
// github.com/d2r2/go-i2c.
//
// Example:
//
//	b, err := i2cdev.Open(1) // /dev/i2c-1
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	dsp := sigmadsp.New(b)
package i2cdev
