package main

import (
	"fmt"
	"io"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// termPresenter renders cards as plain text and forwards navigation requests
// to the session loop over a channel.
type termPresenter struct {
	out io.Writer
	nav chan string
}

func newTermPresenter(out io.Writer) *termPresenter {
	return &termPresenter{out: out, nav: make(chan string, 1)}
}

func (p *termPresenter) RenderCard(card domain.Card, side domain.CardSide) {
	fmt.Fprintln(p.out)
	if label := card.Label(); label != "" {
		fmt.Fprintf(p.out, "=== %s ===\n", label)
	}
	if asset := card.Asset(side); asset != nil {
		fmt.Fprintf(p.out, "[%s] %s\n", side, *asset)
	} else {
		fmt.Fprintf(p.out, "[%s] (no image)\n", side)
	}
	fmt.Fprintln(p.out, "enter: flip | k: known | u: unknown | q: quit")
}

func (p *termPresenter) ShowMessage(text string) {
	fmt.Fprintf(p.out, "\n*** %s ***\n", text)
}

// NavigateTo never blocks. A second navigation before the first is consumed
// is dropped; the controller issues at most one terminal destination per
// deck anyway.
func (p *termPresenter) NavigateTo(url string) {
	select {
	case p.nav <- url:
	default:
	}
}
