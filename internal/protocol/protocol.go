package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeCommand = "CMD"
	TypeResult  = "RESULT"
)

// Command kinds.
const (
	KindDeposit         = "deposit"
	KindWithdraw        = "withdraw"
	KindGetBalance      = "get_balance"
	KindSetStock        = "set_stock"
	KindAddDistribution = "add_distribution"
	KindGetInventory    = "get_inventory"
	KindCartSetItem     = "cart_set_item"
	KindCartCheckout    = "cart_checkout"
	KindCartAbandon     = "cart_abandon"
	KindNameLock        = "name_lock"
	KindNameRelease     = "name_release"
	KindGetCatalog      = "get_catalog"
)

// Commodity identifiers accepted by set_stock.
const (
	CommodityA = "stock_a"
	CommodityB = "stock_b"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// CommandMsg is the wire envelope for a single command. The authorization
// verdict is resolved by the caller; the engine never sees roles.
type CommandMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	CmdID           string         `json:"cmd_id,omitempty"`
	ActorID         string         `json:"actor_id"`
	Authorized      bool           `json:"authorized"`
	Kind            string         `json:"kind"`
	Payload         CommandPayload `json:"payload"`
}

type CommandPayload struct {
	Amount    int64  `json:"amount,omitempty"`
	Commodity string `json:"commodity,omitempty"`
	Item      string `json:"item,omitempty"`
	Qty       int64  `json:"qty,omitempty"`
}

// ResultMsg is the wire reply for one CommandMsg.
type ResultMsg struct {
	Type    string `json:"type"`
	CmdID   string `json:"cmd_id,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Value   any    `json:"value,omitempty"`
	Summary string `json:"summary,omitempty"`
}
