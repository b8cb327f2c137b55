package base

import (
	"github.com/ziutek/ftdi"
)

type VidPid struct {
	Vendor  int
	Product int
}

// FTDIDevices are the USB bridges found on Valon boards, FT232R first.
var FTDIDevices = []VidPid{
	{FTDIVendor, FTDIProduct},
	{FTDIVendor, 0x6015},
}

type FTDIDeviceInfo struct {
	VidPid
	Manufacturer string
	Description  string
	Serial       string
}

// FindFTDIDevices lists every attached bridge without opening it.
func FindFTDIDevices() ([]FTDIDeviceInfo, error) {
	var devices []FTDIDeviceInfo
	for _, pv := range FTDIDevices {
		if devs, err := ftdi.FindAll(pv.Vendor, pv.Product); err == nil {
			for _, dev := range devs {
				devices = append(devices, FTDIDeviceInfo{
					VidPid:       pv,
					Manufacturer: dev.Manufacturer,
					Description:  dev.Description,
					Serial:       dev.Serial,
				})
				dev.Close()
			}
		} else {
			return nil, err
		}
	}
	return devices, nil
}
