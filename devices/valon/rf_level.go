package valon

import "github.com/fernandosanchezjr/govalon/devices/valon/protocol"

// RFLevels are the output powers in dBm, indexed by their register code.
var RFLevels = [4]int32{-4, -1, 2, 5}

func RFLevelCode(dbm int32) (uint32, error) {
	for code, level := range RFLevels {
		if level == dbm {
			return uint32(code), nil
		}
	}
	return 0, &protocol.InvalidArgumentError{Name: "RF level", Value: dbm, Reason: "must be one of -4, -1, 2, 5 dBm"}
}

func RFLevelFromCode(code uint32) int32 {
	return RFLevels[code&0x3]
}
