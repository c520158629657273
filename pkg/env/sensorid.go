package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

const sensorIDLen = 16

// SensorID derives an ID for the sensor attached to this machine. The
// hostname is used when the machine has no ID.
func SensorID() string {
	id, err := machineid.ProtectedID("pms")
	if err != nil {
		if id, err = os.Hostname(); err != nil {
			return "pms"
		}
		return id
	}
	if len(id) > sensorIDLen {
		id = id[:sensorIDLen]
	}
	return id
}
