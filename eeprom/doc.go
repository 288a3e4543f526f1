// Package eeprom accesses 24Cxx-style I2C EEPROMs such as the cape
// identification EEPROM.
//
// The bus is any tinygo.org/x/drivers.I2C implementation: the Linux
// i2c-dev backend in package i2cdev, the simulator in package eeprom/sim,
// or a microcontroller I2C peripheral.
//
// # Transfers
//
// Every transfer starts with the word address:
//
//	Write byte:  [ADDR_H][ADDR_L][DATA]
//	Random read: [ADDR_H][ADDR_L] then repeated start, read N bytes
//	Probe:       read 1 byte from the current address
//
// Writes go one byte per transaction followed by the write-cycle delay,
// so the part's page size never matters.
//
// # Usage
//
//	chip := eeprom.NewChip(bus, 0x54)
//	if _, err := chip.WriteAt(img, 0); err != nil {
//	    return err
//	}
//	back := make([]byte, len(img))
//	_, err := chip.ReadAt(back, 0)
//
// Cape EEPROMs answer at one of CapeAddresses, selected by two address
// straps on the cape.
package eeprom
