package process

import "golang.org/x/term"

// setRawMode puts the terminal at fd into raw mode and returns a
// function that restores the previous state.
func setRawMode(fd int) (func(), error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(fd, state) }, nil
}
