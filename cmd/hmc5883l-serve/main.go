// Command hmc5883l-serve exposes magnetometer readings over HTTP: a JSON
// endpoint at /api/reading and a websocket stream at /ws.
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
	port := flag.Int("port", 8080, "HTTP listen port")
	interval := flag.Duration("interval", 100*time.Millisecond, "Time between streamed readings")
	gain := flag.Int("gain", int(hmc5883l.Gain1090), "Gain setting (0-7)")
	flag.Parse()

	if _, err := host.Init(); err != nil {
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

	log.Fatal(run(*port, dev, opts.Gain, *interval))
}
