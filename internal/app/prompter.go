package app

import (
	"context"
	"errors"
	"sync"

	"github.com/llehouerou/jukebox/internal/device"
	"github.com/llehouerou/jukebox/internal/playqueue"
)

// ErrPrompterClosed is returned by prompts raised after the interface quit.
var ErrPrompterClosed = errors.New("prompter closed")

type mountRequest struct {
	device *device.Device
	reply  chan playqueue.MountChoice
}

// Prompter forwards mount prompts from queue workers to the interface and
// waits for the answer. It implements playqueue.Prompter.
type Prompter struct {
	requests chan *mountRequest
	done     chan struct{}
	once     sync.Once
}

var _ playqueue.Prompter = (*Prompter)(nil)

// NewPrompter creates a prompter.
func NewPrompter() *Prompter {
	return &Prompter{
		requests: make(chan *mountRequest),
		done:     make(chan struct{}),
	}
}

// ConfirmMount blocks until the user answers, ctx is done or the prompter
// is closed.
func (p *Prompter) ConfirmMount(ctx context.Context, d *device.Device) (playqueue.MountChoice, error) {
	req := &mountRequest{device: d, reply: make(chan playqueue.MountChoice, 1)}

	select {
	case p.requests <- req:
	case <-ctx.Done():
		return playqueue.MountAbort, ctx.Err()
	case <-p.done:
		return playqueue.MountAbort, ErrPrompterClosed
	}

	select {
	case choice := <-req.reply:
		return choice, nil
	case <-ctx.Done():
		return playqueue.MountAbort, ctx.Err()
	case <-p.done:
		return playqueue.MountAbort, ErrPrompterClosed
	}
}

// Close aborts pending and future prompts.
func (p *Prompter) Close() {
	p.once.Do(func() { close(p.done) })
}

func (r *mountRequest) answer(c playqueue.MountChoice) {
	select {
	case r.reply <- c:
	default:
	}
}
