package gossip

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
)

// ErrMalformedMessage is returned when an inbound message can't be parsed
// into the structure its type requires.
var ErrMalformedMessage = errors.New("malformed peer message")

// MessageType identifies the payload of a peer message.
type MessageType string

// Set of message types exchanged between peers.
const (
	TypeBlockchainState   MessageType = "BLOCKCHAIN_STATE"
	TypeRequestBlockchain MessageType = "REQUEST_BLOCKCHAIN"
	TypeNewTransaction    MessageType = "NEW_TRANSACTION"
	TypeNewBlock          MessageType = "NEW_BLOCK"
	TypeDifficultyChanged MessageType = "DIFFICULTY_CHANGED"
)

// Message is the envelope for everything sent between peers.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// StatePayload is the data of a BLOCKCHAIN_STATE message.
type StatePayload struct {
	Chain []database.Block `json:"chain"`
	Stats ledger.Stats     `json:"stats"`
}

// DifficultyPayload is the data of a DIFFICULTY_CHANGED message.
type DifficultyPayload struct {
	Difficulty int `json:"difficulty"`
}

// =============================================================================

// NewMessage constructs a message with the payload encoded as its data.
func NewMessage(typ MessageType, payload any) (Message, error) {
	msg := Message{Type: typ}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Message{}, fmt.Errorf("encoding %s payload: %w", typ, err)
		}
		msg.Data = data
	}

	return msg, nil
}

// ParseMessage decodes the envelope of an inbound message.
func ParseMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	if msg.Type == "" {
		return Message{}, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}

	return msg, nil
}

// ParsePayload decodes the message data into the provided value.
func (m Message) ParsePayload(payload any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%w: %s: missing data", ErrMalformedMessage, m.Type)
	}

	if err := json.Unmarshal(m.Data, payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedMessage, m.Type, err)
	}

	return nil
}
