package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sharetube/client/pkg/validator"
)

var (
	ErrMalformed = errors.New("malformed message")
	ErrInvalid   = errors.New("invalid message payload")
)

var validate = validator.NewValidator()

// Encode frames msg the way the server expects: {"Tag":{...}}, or a bare "Tag"
// string for messages without fields.
func Encode(msg Outbound) ([]byte, error) {
	if _, ok := msg.(Goodbye); ok {
		return json.Marshal(msg.Tag())
	}

	data, err := json.Marshal(map[string]Outbound{msg.Tag(): msg})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", msg.Tag(), err)
	}

	return data, nil
}

// Decode parses one server message. Tags the client does not know are not an error,
// they decode to Unknown so the caller can decide to ignore them.
func Decode(data []byte) (Inbound, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrMalformed)
	}

	if data[0] == '"' {
		var tag string
		if err := json.Unmarshal(data, &tag); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch tag {
		case Ping{}.Tag():
			return Ping{}, nil
		default:
			return Unknown{Name: tag}, nil
		}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if len(envelope) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one tag, got %d", ErrMalformed, len(envelope))
	}

	for tag, payload := range envelope {
		return decodeTagged(tag, payload)
	}

	return nil, ErrMalformed
}

func decodeTagged(tag string, payload json.RawMessage) (Inbound, error) {
	switch tag {
	case RoomState{}.Tag():
		return decodeInto[RoomState](tag, payload)
	case RoomUpdate{}.Tag():
		return decodeInto[RoomUpdate](tag, payload)
	case Ping{}.Tag():
		return Ping{}, nil
	case NewParticipant{}.Tag():
		return decodeInto[NewParticipant](tag, payload)
	case ByeParticipant{}.Tag():
		return decodeInto[ByeParticipant](tag, payload)
	case DoSeek{}.Tag():
		return decodeInto[DoSeek](tag, payload)
	case SetState{}.Tag():
		return decodeInto[SetState](tag, payload)
	case ChatMessage{}.Tag():
		return decodeInto[ChatMessage](tag, payload)
	case NewStream{}.Tag():
		var ns NewStream
		if err := json.Unmarshal(payload, &ns.Stream); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, tag, err)
		}
		if err := validate.Check(ns.Stream); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, tag, err)
		}
		return ns, nil
	case ServerError{}.Tag():
		var se ServerError
		if err := json.Unmarshal(payload, &se.Message); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, tag, err)
		}
		return se, nil
	default:
		return Unknown{Name: tag}, nil
	}
}

func decodeInto[T Inbound](tag string, payload json.RawMessage) (Inbound, error) {
	var msg T
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, tag, err)
	}

	if err := validate.Check(msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, tag, err)
	}

	return msg, nil
}
