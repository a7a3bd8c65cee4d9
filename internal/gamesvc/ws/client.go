package ws

import (
	"sync"

	"github.com/awashgames/gamehub-services/internal/comm"
	"github.com/gorilla/websocket"
)

// Client wraps one live websocket connection. gorilla allows a single
// concurrent writer per connection, so all writes go through the mutex;
// gift pushes from another player's goroutine arrive here too.
type Client struct {
	socketId string
	conn     *websocket.Conn
	mu       sync.Mutex
}

func NewClient(socketId string, conn *websocket.Conn) *Client {
	return &Client{socketId: socketId, conn: conn}
}

func (c *Client) SocketId() string {
	return c.socketId
}

// Send writes one reply envelope to the socket.
func (c *Client) Send(command string, payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(&comm.WSReply{Command: command, Payload: payload})
}

// ReadMessage blocks for the next frame. Only the connection's own read
// loop calls this.
func (c *Client) ReadMessage() (int, []byte, error) {
	return c.conn.ReadMessage()
}

func (c *Client) Close() error {
	return c.conn.Close()
}
