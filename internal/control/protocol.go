package control

import "errors"

var (
	ErrUnknownOp    = errors.New("control: unknown op")
	ErrBadRequest   = errors.New("control: bad request")
	ErrUnknownGuild = errors.New("control: unknown guild")
)

// Ops accepted by the server.
const (
	OpGet    = "get"
	OpSet    = "set"
	OpAdjust = "adjust"
	OpUp     = "up"
	OpDown   = "down"
)

// Request is one JSON command read from the socket.
type Request struct {
	Op     string `json:"op"`
	Guild  string `json:"guild"`
	Volume *int   `json:"volume,omitempty"`
	Delta  *int   `json:"delta,omitempty"`
}

// Response answers a Request. OK mirrors the player's accept flag for writes
// and is true for a successful get.
type Response struct {
	Op     string `json:"op"`
	Guild  string `json:"guild"`
	Volume int    `json:"volume"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}
