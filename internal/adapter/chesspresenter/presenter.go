package chesspresenter

import (
	"encoding/base64"
	"strings"

	"github.com/park285/cheese-chess/pkg/chessdto"
)

// Presenter sends chat texts and board images to a room through injected senders.
type Presenter struct {
	sendMessage func(room, message string) error
	sendImage   func(room, imageBase64 string) error
}

func NewPresenter(sendMessage func(room, message string) error, sendImage func(room, imageBase64 string) error) *Presenter {
	return &Presenter{
		sendMessage: sendMessage,
		sendImage:   sendImage,
	}
}

// Text sends message alone.
func (p *Presenter) Text(room, message string) error {
	return p.Board(room, message, nil)
}

// Board sends message, then the rendered board of state when it carries one.
func (p *Presenter) Board(room, message string, state *chessdto.GameState) error {
	if p == nil {
		return nil
	}
	if strings.TrimSpace(message) != "" && p.sendMessage != nil {
		if err := p.sendMessage(room, message); err != nil {
			return err
		}
	}
	if state == nil || len(state.BoardImage) == 0 || p.sendImage == nil {
		return nil
	}
	return p.sendImage(room, base64.StdEncoding.EncodeToString(state.BoardImage))
}
