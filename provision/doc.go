// Package provision writes a cape identification image into the EEPROM of a
// physical cape and verifies it.
//
// # Overview
//
// A session runs the states below in order. Any state may fail; DONE is
// reached only after a byte-exact read-back and the operator's confirmation
// that write protection is back in place.
//
//	discovering -> awaiting_write_unlock -> device_binding -> writing
//	  -> verifying -> awaiting_write_lock -> done
//
// # Basic Usage
//
//	img, _, err := capeid.ReadImage("bb-io-cape.eeprom")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	target := &i2cdev.Target{Bus: 2}
//	prog := provision.New(target, operator.NewTerminal(os.Stdin, os.Stdout))
//
//	sess, err := prog.Provision(context.Background(), img)
//	if err != nil {
//	    log.Fatalf("%s: %v", sess.State, err)
//	}
//
// # Discovery
//
// The candidate addresses 0x54 to 0x57 are probed in ascending order and
// the first responder is used. When none responds the Operator is asked
// for an address; empty input selects 0x54. WithAddress skips the probe.
//
// # Write Protection
//
// Cape EEPROMs are write protected by a jumper or test point. The session
// blocks on Operator.ConfirmWriteUnlock before binding the device and on
// Operator.ConfirmWriteLock after verification. Declining the first leaves
// the chip untouched. Declining the second fails the session but keeps
// Outcome at OutcomeVerified.
//
// # Error Handling
//
// The package provides structured error types:
//   - DeviceNotFoundError: nothing responded and manual entry was abandoned
//   - DeviceBindError: the storage endpoint failed to bind twice
//   - WriteError: a byte could not be written (Offset says which)
//   - ReadBackError: the image could not be read back
//   - VerificationMismatchError: the read-back differs from the image
//   - OperatorAbortError: the operator declined a confirmation
//
// # Targets
//
// The Target interface is satisfied by eeprom.BusTarget for any
// tinygo.org/x/drivers.I2C bus, by i2cdev.Target for /dev/i2c-N and by
// sysfs.Target for the at24 kernel driver. Tests use eeprom/sim.
package provision
