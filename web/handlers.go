package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/carrig/config"
	"github.com/mogaika/carrig/export"
	"github.com/mogaika/carrig/motion"
	"github.com/mogaika/carrig/status"
	"github.com/mogaika/carrig/utils"
	"github.com/mogaika/carrig/webutils"
)

type stateResponse struct {
	Mode   config.Mode        `json:"mode"`
	Frames uint64             `json:"frames"`
	State  motion.MotionState `json:"state"`
	Pose   motion.Pose        `json:"pose"`
}

func currentState() *stateResponse {
	state, pose := ServerDriver.Last()
	return &stateResponse{
		Mode:   config.GetRig().Mode,
		Frames: ServerDriver.Frames(),
		State:  state,
		Pose:   pose,
	}
}

func HandlerState(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, currentState())
}

func HandlerConfig(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, config.GetRig())
}

func HandlerDumpState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	webutils.WriteResult(w, []byte(utils.SDump(currentState())))
}

type objectInfo struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Position mgl32.Vec3   `json:"position"`
	Vertices int          `json:"vertices"`
	Revision uint64       `json:"revision"`
	Data     []mgl32.Vec3 `json:"data,omitempty"`
}

func HandlerScene(w http.ResponseWriter, r *http.Request) {
	objects := ServerScene.Objects()
	list := make([]objectInfo, len(objects))
	for i, m := range objects {
		snap := m.Snapshot()
		list[i] = objectInfo{
			ID:       m.ID,
			Name:     snap.Name,
			Position: snap.Position,
			Vertices: len(snap.Vertices),
			Revision: snap.Revision,
		}
	}
	webutils.WriteJson(w, list)
}

func HandlerObject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusBadRequest, errors.Wrapf(err, "Invalid object id"))
		return
	}
	m, ok := ServerScene.Get(id)
	if !ok {
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Object %v not found", id))
		return
	}
	snap := m.Snapshot()
	webutils.WriteJson(w, &objectInfo{
		ID:       m.ID,
		Name:     snap.Name,
		Position: snap.Position,
		Vertices: len(snap.Vertices),
		Revision: snap.Revision,
		Data:     snap.World(),
	})
}

func HandlerExportFrame(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]
	snaps := ServerScene.Snapshot()

	var buffer bytes.Buffer
	var err error
	switch format {
	case "glb":
		err = export.GLB(&buffer, snaps)
	case "obj":
		err = export.OBJ(&buffer, snaps)
	case "fbx":
		err = export.FBX(&buffer, snaps)
	default:
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Unknown export format %q", format))
		return
	}
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	if webutils.ETag(w, r, export.Checksum(snaps)) {
		return
	}
	state, _ := ServerDriver.Last()
	webutils.WriteFile(w, &buffer, fmt.Sprintf("frame-%.3f.%s", state.Elapsed, format))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	status.NewClient(conn)
}
