package main

//go-build: CGO_ENABLED=0

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/sulami/mechanical-crab/pkg/telemetry"
)

var (
	mqttURL = "mqtt://localhost:1883/crab/"
)

func init() {
	if val := os.Getenv("CRAB_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := telemetry.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	err = q.Sub("+/events", func(topic string, payload []byte) {
		var ev telemetry.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Printf("%s: bad event: %v", topic, err)
			return
		}
		log.Printf("%s: [%s] %s", ev.Device, ev.Kind, ev.Detail)
	})
	if err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
