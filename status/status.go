// Package status streams simulation frames to websocket clients.
package status

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mogaika/carrig/motion"
)

type Frame struct {
	Time     time.Time          `json:"time"`
	Mode     string             `json:"mode"`
	State    motion.MotionState `json:"state"`
	Pose     motion.Pose        `json:"pose"`
	Checksum uint64             `json:"checksum,string"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump drops everything the client sends and notices disconnects
func (c *client) readPump() {
	defer c.conn.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func NewClient(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	globalLock.Lock()
	broadcastList[c] = true
	if lastMessage != nil {
		c.send <- lastMessage
	}
	globalLock.Unlock()
	go c.writePump()
	go c.readPump()
	return c
}

var broadcastList = make(map[*client]bool)
var globalLock sync.Mutex
var lastMessage []byte
var lastChecksum uint64

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(broadcastList, c)
}

func ClientsCount() int {
	globalLock.Lock()
	defer globalLock.Unlock()
	return len(broadcastList)
}

// Last returns the most recently published frame encoded as json
func Last() []byte {
	globalLock.Lock()
	defer globalLock.Unlock()
	return lastMessage
}

// Publish sends f to every client. Frames with unchanged geometry are skipped,
// and slow clients miss frames instead of blocking the simulation.
func Publish(f *Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		panic(err)
	}

	globalLock.Lock()
	defer globalLock.Unlock()
	if lastMessage != nil && f.Checksum == lastChecksum {
		return
	}
	lastMessage = data
	lastChecksum = f.Checksum
	for c := range broadcastList {
		select {
		case c.send <- data:
		default:
		}
	}
}
