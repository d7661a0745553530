package audio

import (
	"context"
	"log"

	"gitlab.com/gomidi/rtmididrv"
)

// ListenToMidiIn opens the first MIDI input port and streams its raw
// messages until ctx is cancelled. The channel closes when the port
// shuts down; a machine without MIDI hardware just gets a channel that
// never delivers.
func ListenToMidiIn(ctx context.Context) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		if err := listen(ctx, ch); err != nil {
			log.Printf("MIDI IN unavailable: %v\n", err)
		}
	}()
	return ch
}

func listen(ctx context.Context, ch chan<- []byte) error {
	drv, err := rtmididrv.New()
	if err != nil {
		return err
	}
	defer func() {
		if err := drv.Close(); err != nil {
			log.Printf("failed to close MIDI driver: %v\n", err)
		}
	}()
	ins, err := drv.Ins()
	if err != nil {
		return err
	}
	if len(ins) == 0 {
		log.Println("WARN: no MIDI IN ports found")
		return nil
	}
	for _, in := range ins {
		log.Printf("MIDI IN port: %v\n", in)
	}
	in := ins[0]
	if err := in.Open(); err != nil {
		return err
	}
	defer func() {
		if err := in.Close(); err != nil {
			log.Printf("failed to close MIDI IN: %v\n", err)
		}
	}()
	log.Println("listening on " + in.String())
	if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
		ch <- data
	}); err != nil {
		return err
	}
	defer func() {
		if err := in.StopListening(); err != nil {
			log.Printf("failed to stop listening: %v\n", err)
		}
	}()
	defer close(ch)
	<-ctx.Done()
	return nil
}
