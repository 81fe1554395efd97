package input

import (
	"sync"
	"time"

	"github.com/PhiFans/phiweb-sub000/internal/logger"
	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
)

// Keyboard turns terminal key presses into key points. Terminals report
// no releases, so each press is held for a fixed duration.
type Keyboard struct {
	set   *Set
	now   func() float64
	hold  time.Duration
	quit  chan struct{}
	retry chan struct{}

	mu     sync.Mutex
	timers map[int]*time.Timer
}

func NewKeyboard(set *Set, now func() float64, hold time.Duration) *Keyboard {
	return &Keyboard{
		set:    set,
		now:    now,
		hold:   hold,
		quit:   make(chan struct{}),
		retry:  make(chan struct{}, 1),
		timers: map[int]*time.Timer{},
	}
}

// Quit is closed when escape is pressed or the keyboard fails.
func (k *Keyboard) Quit() <-chan struct{} {
	return k.quit
}

// Retry receives when ctrl+r is pressed.
func (k *Keyboard) Retry() <-chan struct{} {
	return k.retry
}

func (k *Keyboard) Open() error {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return errors.Wrap(err, "unable to open keyboard")
	}
	go func() {
		defer close(k.quit)
		for ev := range keys {
			if nil != ev.Err {
				logger.Error("unable to read keyboard input", logger.ErrorField(ev.Err))
				return
			}
			switch ev.Key {
			case keyboard.KeyEsc, keyboard.KeyCtrlC:
				return
			case keyboard.KeyCtrlR:
				select {
				case k.retry <- struct{}{}:
				default:
				}
				continue
			}
			k.press(keyID(ev))
		}
	}()
	return nil
}

func keyID(ev keyboard.KeyEvent) int {
	if ev.Rune != 0 {
		return int(ev.Rune)
	}
	return -int(ev.Key)
}

func (k *Keyboard) press(id int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if t, ok := k.timers[id]; ok {
		t.Stop()
	}
	k.set.Down(Key, id, 0, 0, k.now())
	var t *time.Timer
	t = time.AfterFunc(k.hold, func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		k.release(id, t)
	})
	k.timers[id] = t
}

// release lifts key id if t is still its timer. A timer that fired while a
// newer press replaced it is ignored. Callers hold k.mu.
func (k *Keyboard) release(id int, t *time.Timer) {
	if k.timers[id] != t {
		return
	}
	delete(k.timers, id)
	k.set.Up(Key, id, k.now())
}

func (k *Keyboard) Close() error {
	k.mu.Lock()
	for id, t := range k.timers {
		t.Stop()
		delete(k.timers, id)
	}
	k.mu.Unlock()
	return keyboard.Close()
}
