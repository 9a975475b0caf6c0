package main

import (
	"flag"
	"log"
	"time"

	"github.com/mikesmitty/hmc5883l"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func main() {
	bus := flag.String("bus", "", "Name of the I2C bus")
	interval := flag.Duration("interval", time.Second, "Time between readings")
	gain := flag.Int("gain", int(hmc5883l.Gain1090), "Gain setting (0-7)")
	flag.Parse()

	_, err := host.Init()
	if err != nil {
		log.Fatal(err)
	}

	b, err := i2creg.Open(*bus)
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	opts := hmc5883l.DefaultOpts()
	opts.Gain = hmc5883l.Gain(*gain)

	dev, err := hmc5883l.New(b, opts)
	if err != nil {
		log.Fatal(err)
	}

	id, err := dev.Identity()
	if err != nil {
		log.Fatal(err)
	}
	if id != hmc5883l.DeviceID {
		log.Fatalf("unexpected device identity %#08x, want %#08x", id, hmc5883l.DeviceID)
	}

	ticker := time.NewTicker(*interval)

	for {
		r, err := dev.Reading(opts.Gain)
		if err != nil {
			log.Print(err)
		} else {
			log.Printf("X: %8.2f mG  Y: %8.2f mG  Z: %8.2f mG", r.X, r.Y, r.Z)
		}

		<-ticker.C
	}
}
