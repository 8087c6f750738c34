package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"skyplanes/sim"
)

// Run renders a frame every period until ctx ends or the user quits with
// Esc, q or Ctrl-C. The screen must already be initialized.
func Run(ctx context.Context, screen tcell.Screen, pass *sim.RenderPass, surface sim.Surface, period time.Duration) error {
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil, *tcell.EventInterrupt:
				return nil
			case *tcell.EventKey:
				if isQuitKey(ev) {
					quit()
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	})
	grp.Go(func() error {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				// Unblock PollEvent.
				_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
				return nil
			case <-ticker.C:
				pass.Frame(surface)
			}
		}
	})
	return grp.Wait()
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}
