package wire

import "bytes"

// ForwardRequest is the inbound shape: an executor asks the router to run a
// command on a target. Reserved TargetServer values "all" and
// "proxy"/"velocity" are matched ignoring case; anything else names a
// destination.
type ForwardRequest struct {
	TargetServer     string
	Command          string
	ExecutorName     string
	ExecutorUUID     string
	ExecuteAsConsole bool
}

// RelayMessage is the outbound shape sent to one concrete destination. It
// carries no target field: the destination is implicit in the send call.
// Deliberately a distinct struct from ForwardRequest.
type RelayMessage struct {
	Command          string
	ExecutorName     string
	ExecutorUUID     string
	ExecuteAsConsole bool
}

// EncodeRequest serializes req with every field in declared order.
func EncodeRequest(req ForwardRequest) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range []string{req.TargetServer, req.Command, req.ExecutorName, req.ExecutorUUID} {
		if err := writeString(&buf, s); err != nil {
			return nil, err
		}
	}
	writeBool(&buf, req.ExecuteAsConsole)
	return buf.Bytes(), nil
}

// DecodeRequest parses a full request payload. Any truncation, overrun, or
// trailing garbage yields ErrMalformed and no partial value.
func DecodeRequest(payload []byte) (ForwardRequest, error) {
	r := reader{data: payload}
	var req ForwardRequest
	var err error
	if req.TargetServer, err = r.readString(); err != nil {
		return ForwardRequest{}, err
	}
	if req.Command, err = r.readString(); err != nil {
		return ForwardRequest{}, err
	}
	if req.ExecutorName, err = r.readString(); err != nil {
		return ForwardRequest{}, err
	}
	if req.ExecutorUUID, err = r.readString(); err != nil {
		return ForwardRequest{}, err
	}
	if req.ExecuteAsConsole, err = r.readBool(); err != nil {
		return ForwardRequest{}, err
	}
	if err := r.finish(); err != nil {
		return ForwardRequest{}, err
	}
	return req, nil
}

// EncodeRelay serializes msg with every field in declared order.
func EncodeRelay(msg RelayMessage) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range []string{msg.Command, msg.ExecutorName, msg.ExecutorUUID} {
		if err := writeString(&buf, s); err != nil {
			return nil, err
		}
	}
	writeBool(&buf, msg.ExecuteAsConsole)
	return buf.Bytes(), nil
}

// DecodeRelay parses a full relay payload, failing closed like DecodeRequest.
func DecodeRelay(payload []byte) (RelayMessage, error) {
	r := reader{data: payload}
	var msg RelayMessage
	var err error
	if msg.Command, err = r.readString(); err != nil {
		return RelayMessage{}, err
	}
	if msg.ExecutorName, err = r.readString(); err != nil {
		return RelayMessage{}, err
	}
	if msg.ExecutorUUID, err = r.readString(); err != nil {
		return RelayMessage{}, err
	}
	if msg.ExecuteAsConsole, err = r.readBool(); err != nil {
		return RelayMessage{}, err
	}
	if err := r.finish(); err != nil {
		return RelayMessage{}, err
	}
	return msg, nil
}
