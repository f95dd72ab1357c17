package chessdto

type RequestMeta struct {
	Room       string
	Sender     string
	SenderName string
}

// StartRequest opens a game. An empty Opponent means the sender plays both sides.
type StartRequest struct {
	Meta         RequestMeta
	Opponent     string
	OpponentName string
	Color        string // white, black or random
}

type MoveRequest struct {
	Meta RequestMeta
	From string
	To   string
}

type MovesRequest struct {
	Meta   RequestMeta
	Square string
}
