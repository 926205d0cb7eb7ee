package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"io"
	"log"
	"net/http"

	"github.com/golang/glog"

	"github.com/sulami/mechanical-crab/pkg/board"
	"github.com/sulami/mechanical-crab/pkg/dispatch"
	"github.com/sulami/mechanical-crab/pkg/loop"
	"github.com/sulami/mechanical-crab/pkg/telemetry"
	"github.com/sulami/mechanical-crab/pkg/uart"
)

var (
	serialDev  string
	serialBaud = uart.DefaultBaud
	listenAddr string
	boardFile  string
	mqttURL    string
)

func init() {
	flag.StringVar(&serialDev, "serial", serialDev, "Serial device of the command UART (e.g. /dev/ttyUSB0).")
	flag.IntVar(&serialBaud, "baud", serialBaud, "Serial baud rate.")
	flag.StringVar(&listenAddr, "listen-ws", listenAddr, "Listen address for the websocket byte transport (e.g. :8800).")
	flag.StringVar(&boardFile, "board", boardFile, "Board topology YAML file, compiled-in defaults if empty.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL for telemetry (e.g. mqtt://localhost:1883/crab/).")
}

func main() {
	flag.Parse()

	topo := board.DefaultTopology()
	if boardFile != "" {
		var err error
		if topo, err = board.LoadTopology(boardFile); err != nil {
			log.Fatalln(err)
		}
	}

	var (
		source uart.ByteSource
		out    io.Writer
	)
	switch {
	case serialDev != "":
		port, err := uart.OpenPort(uart.PortConfig{Device: serialDev, Baud: serialBaud})
		if err != nil {
			log.Fatalln(err)
		}
		defer port.Close()
		source, out = port, port
		glog.Infof("serving on %s at %d baud", serialDev, serialBaud)
	case listenAddr != "":
		pipe := uart.NewPipe()
		http.Handle("/uart", pipe.WebsocketHandler())
		go func() {
			if err := http.ListenAndServe(listenAddr, nil); err != nil {
				glog.Exitf("websocket listener: %v", err)
			}
		}()
		source, out = pipe, pipe
		glog.Infof("serving websocket transport on %s", listenAddr)
	default:
		log.Fatalln("either -serial or -listen-ws is required")
	}

	l := loop.New(source, out, dispatch.New(board.NewSimBoard(topo), topo, out))

	if mqttURL != "" {
		q, err := telemetry.NewQueueFromURL(mqttURL)
		if err != nil {
			log.Fatalln(err)
		}
		if err := q.Connect(); err != nil {
			log.Fatalln(err)
		}
		defer q.Close()
		l.Sink = telemetry.NewPublisher(q)
	}

	if err := loop.NewRunner().HandleSignals().Go(l).Wait(); err != nil {
		log.Fatalln(err)
	}
}
