package entities

import (
	"sync"

	"github.com/amirrezam75/terrahunt/pkg/logx"
	"github.com/gorilla/websocket"

	"go.uber.org/zap"
)

// Client is the connection half shared by players and viewers. A client
// may exist without a connection; state broadcasts simply skip it until
// a websocket is attached.
type Client struct {
	Connection  *websocket.Conn
	Message     chan []byte
	IsConnected bool
	// To keep track of closed channel
	IsClosed bool

	mutex sync.Mutex
	// generation increments on every attach. Pumps belonging to an
	// older attach release only their own generation, so a stale
	// pump exiting can never tear down a newer connection.
	generation int
}

// Attach binds a websocket connection and a fresh outbound channel,
// kicking any previous connection first (duplicate tab scenario).
func (client *Client) Attach(connection *websocket.Conn) {
	client.Kick()

	client.mutex.Lock()
	defer client.mutex.Unlock()

	client.generation++
	client.Message = make(chan []byte, 50)
	client.IsClosed = false
	client.Connection = connection
	client.IsConnected = true
}

// Different scenarios for 'close of closed channel'
// 1) If user opens duplicate tab and close the first one

func (client *Client) Kick() {
	// We are using mutex to make sure IsClosed value is evaluated correctly
	// when reading its value at the same time.
	// https://go101.org/article/channel-closing.html
	client.mutex.Lock()

	defer client.mutex.Unlock()

	client.closeLocked()
}

// release is the cleanup path for pumps: it only closes the client if
// no newer attach has taken over since the pump started.
func (client *Client) release(generation int) {
	client.mutex.Lock()
	defer client.mutex.Unlock()

	if generation != client.generation {
		return
	}

	client.closeLocked()
}

func (client *Client) closeLocked() {
	if !client.IsClosed && client.Message != nil {
		close(client.Message)
		client.IsClosed = true
	}

	// Connection may be nil when the participant never attached a socket.
	if client.Connection != nil {
		err := client.Connection.Close()

		if err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not close client connection"),
			)
		}
	}

	client.IsConnected = false
}

// Push queues an outbound message without ever blocking the caller.
// Messages to a full or unattached client are dropped.
func (client *Client) Push(message []byte) {
	client.mutex.Lock()
	defer client.mutex.Unlock()

	if client.IsClosed || !client.IsConnected {
		return
	}

	select {
	case client.Message <- message:
	default:
	}
}

// Write pumps queued messages to the websocket until the channel
// closes. The channel, connection and generation are captured together
// so the pump serves exactly one attach.
func (client *Client) Write() {
	client.mutex.Lock()
	generation := client.generation
	messages := client.Message
	connection := client.Connection
	client.mutex.Unlock()

	defer client.release(generation)

	for {
		message, ok := <-messages

		if !ok {
			break
		}

		err := connection.WriteMessage(websocket.TextMessage, message)

		if err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not write client message"),
			)
		}
	}
}

// Read drains the connection until the peer disconnects. Clients do not
// send game mutations over the socket (those arrive via the HTTP API),
// so incoming frames are discarded.
func (client *Client) Read() {
	client.mutex.Lock()
	generation := client.generation
	connection := client.Connection
	client.mutex.Unlock()

	defer client.release(generation)

	for {
		_, _, err := connection.ReadMessage()

		if err != nil {
			break
		}
	}
}
