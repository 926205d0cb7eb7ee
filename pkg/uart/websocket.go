package uart

import (
	"io"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// WebsocketHandler bridges websocket clients onto the pipe: every
// received frame joins the inbound byte stream, and device output
// streams back as binary frames. Useful when no physical UART is
// attached and a host tool speaks the line protocol over the network.
func (p *Pipe) WebsocketHandler() websocket.Handler {
	return websocket.Handler(p.bridge)
}

func (p *Pipe) bridge(conn *websocket.Conn) {
	glog.V(2).Infof("websocket client %s attached", conn.Request().RemoteAddr)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var data []byte
			if err := websocket.Message.Receive(conn, &data); err != nil {
				if err != io.EOF {
					glog.V(2).Infof("websocket receive: %v", err)
				}
				return
			}
			p.Feed(data)
		}
	}()
	for {
		select {
		case <-done:
			return
		case out := <-p.tx:
			if err := websocket.Message.Send(conn, out); err != nil {
				glog.V(2).Infof("websocket send: %v", err)
				return
			}
		}
	}
}
