package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robotalks/pms.go/pkg/mqtt"
	"github.com/robotalks/pms.go/pkg/status"
)

var (
	mqttURL = "mqtt://localhost:1883/"
	sensor  = "+"
)

func init() {
	if val := os.Getenv("PMS_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&sensor, "id", sensor, "Sensor ID to watch, + for all.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub(status.StatusTopic(sensor), mqtt.Handler(func(topic string, payload []byte) {
		event, err := status.DecodeEvent(payload)
		if err != nil {
			log.Printf("%s: bad event: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, event)
	}))
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
