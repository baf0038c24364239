package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/carrig/motion"
)

func TestPublishToClient(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return ClientsCount() > 0 }, time.Second, 10*time.Millisecond)

	Publish(&Frame{
		Mode:     "path",
		State:    motion.MotionState{Waypoint: 2, Elapsed: 1.5},
		Pose:     motion.Pose{Position: mgl32.Vec3{1, 2, 3}, Heading: 90},
		Checksum: 77,
	})
	// same geometry is not resent
	Publish(&Frame{Mode: "path", Checksum: 77})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Frame
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, 2, got.State.Waypoint)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, got.Pose.Position)
	assert.Equal(t, uint64(77), got.Checksum)
	assert.JSONEq(t, string(msg), string(Last()))
}
