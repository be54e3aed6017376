package timer

import "io"

// Bell rings the terminal bell on the wrapped writer
type Bell struct {
	W io.Writer
}

func (b Bell) Notify() error {
	_, err := b.W.Write([]byte("\a"))
	return err
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func() error

func (f NotifierFunc) Notify() error { return f() }
