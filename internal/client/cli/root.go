package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if ch := a.manager.ChannelID(); ch != "" {
		s = ch
		if !a.manager.Verified() {
			s += " unverified"
		}
	}
	if a.engine.Monitoring() {
		if s != "" {
			s += " "
		}
		s += "watching"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to ClipFlow CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.startup(ctx)

	runREPL(ctx, a, a.getStatus, scanner)
}
