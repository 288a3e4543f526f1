package capeid

// Defaults for the BB-IO-CAPE.
const (
	DefaultRevision     = "A1"
	DefaultBoardName    = "BB-IO-CAPE"
	DefaultVersion      = "0001"
	DefaultManufacturer = "Andrew C. Young"
	DefaultPartNumber   = "BB-IO-CAPE-01"

	// DefaultPinCount covers 3 UARTs, 2 I2C buses, 3 analog and 9 digital
	// connectors and the RTC: 6 + 4 + 6 + 18 + 2
	DefaultPinCount = 36

	DefaultVDD3V3B = 50
)

type defaultPin struct {
	header, pin, mux int
	flags            PinConfig
}

// defaultPins is the BB-IO-CAPE pin table. The analog inputs and D1 sit on
// P9 pins 33-42, which have no slot in the table, and are left out.
var defaultPins = []defaultPin{
	// UART1
	{HeaderP9, 26, 0, PinRxEnable | PinPullUp},
	{HeaderP9, 24, 0, PinPullUp},
	// UART2
	{HeaderP9, 22, 1, PinRxEnable | PinPullUp},
	{HeaderP9, 21, 1, PinPullUp},
	// UART4
	{HeaderP9, 11, 6, PinRxEnable | PinPullUp},
	{HeaderP9, 13, 6, PinPullUp},
	// I2C1
	{HeaderP9, 17, 2, PinRxEnable | PinPullUp},
	{HeaderP9, 18, 2, PinRxEnable | PinPullUp},
	// I2C2, shared with the cape EEPROM
	{HeaderP9, 19, 3, PinRxEnable | PinPullUp},
	{HeaderP9, 20, 3, PinRxEnable | PinPullUp},
	// D2-D9 GPIO
	{HeaderP8, 19, 7, PinPullUp},
	{HeaderP8, 13, 7, PinPullUp},
	{HeaderP8, 14, 7, PinPullUp},
	{HeaderP8, 17, 7, PinPullUp},
	{HeaderP8, 12, 7, PinPullUp},
	{HeaderP8, 11, 7, PinPullUp},
	{HeaderP8, 16, 7, PinPullUp},
	{HeaderP8, 15, 7, PinPullUp},
	{HeaderP9, 15, 7, PinPullUp},
	{HeaderP9, 16, 7, PinPullUp},
	{HeaderP8, 7, 7, PinPullUp},
	{HeaderP8, 8, 7, PinPullUp},
	{HeaderP8, 10, 7, PinPullUp},
	{HeaderP8, 9, 7, PinPullUp},
	{HeaderP9, 25, 7, PinPullUp},
	{HeaderP9, 27, 7, PinPullUp},
	// RTC interrupt and output
	{HeaderP9, 12, 7, PinPullUp},
	{HeaderP8, 28, 7, PinPullUp},
}

// DefaultRecord returns the BB-IO-CAPE identity with a blank serial number.
func DefaultRecord() *Record {
	r := &Record{
		EEPROMRevision: DefaultRevision,
		BoardName:      DefaultBoardName,
		Version:        DefaultVersion,
		Manufacturer:   DefaultManufacturer,
		PartNumber:     DefaultPartNumber,
		PinCount:       DefaultPinCount,
		VDD3V3B:        DefaultVDD3V3B,
	}
	for _, p := range defaultPins {
		cfg, err := NewPin(p.mux, p.flags)
		if err != nil {
			panic(err)
		}
		if err := r.SetPin(p.header, p.pin, cfg); err != nil {
			panic(err)
		}
	}
	return r
}
