// Command hmc5883l-mqtt polls the magnetometer and publishes readings as JSON
// to an MQTT broker.
package main

import (
	"encoding/json"
	"flag"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/mikesmitty/hmc5883l"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// payload is the JSON schema published per reading. Field values are in
// milligauss, norm is the field magnitude, time is RFC3339.
type payload struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Norm float64 `json:"norm"`
	Time string  `json:"time"`
}

func main() {
	bus := flag.String("bus", "", "Name of the I2C bus")
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	clientID := flag.String("client-id", "hmc5883l-producer", "MQTT client ID")
	topic := flag.String("topic", "sensors/mag/hmc5883l", "MQTT topic to publish on")
	interval := flag.Duration("interval", 100*time.Millisecond, "Time between readings")
	gain := flag.Int("gain", int(hmc5883l.Gain1090), "Gain setting (0-7)")
	loglevel := flag.Int("loglevel", int(logrus.InfoLevel), "Log level, 0 to 6")
	flag.Parse()

	log := logrus.New()
	log.SetLevel(logrus.Level(*loglevel))

	if _, err := host.Init(); err != nil {
		log.WithError(err).Fatal("periph host init failed")
	}

	b, err := i2creg.Open(*bus)
	if err != nil {
		log.WithError(err).Fatal("i2c open failed")
	}
	defer b.Close()

	opts := hmc5883l.DefaultOpts()
	opts.Gain = hmc5883l.Gain(*gain)

	dev, err := hmc5883l.New(b, opts)
	if err != nil {
		log.WithError(err).Fatal("sensor init failed")
	}
	defer dev.Halt()

	id, err := dev.Identity()
	if err != nil {
		log.WithError(err).Fatal("identity read failed")
	}
	if id != hmc5883l.DeviceID {
		log.Fatalf("unexpected device identity %#08x, want %#08x", id, hmc5883l.DeviceID)
	}
	log.WithField("identity", id).Debug("sensor identified")

	mopts := mqtt.NewClientOptions().AddBroker(*broker).SetClientID(*clientID)
	client := mqtt.NewClient(mopts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("mqtt connect failed")
	}
	defer client.Disconnect(250)
	log.WithField("broker", *broker).Info("producer started")

	readings, err := dev.ReadContinuous(*interval, opts.Gain)
	if err != nil {
		log.WithError(err).Fatal("continuous read failed")
	}

	for r := range readings {
		p := payload{
			X:    r.X,
			Y:    r.Y,
			Z:    r.Z,
			Norm: math.Sqrt(r.X*r.X + r.Y*r.Y + r.Z*r.Z),
			Time: time.Now().UTC().Format(time.RFC3339),
		}
		buf, err := json.Marshal(p)
		if err != nil {
			log.WithError(err).Error("marshal failed")
			continue
		}
		if token := client.Publish(*topic, 0, false, buf); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).Error("publish failed")
		}
	}

	// The channel closes on the first bus error.
	log.Fatal("sensor stopped delivering readings")
}
