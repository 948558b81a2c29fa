// x11idle prints the X server's idle time in milliseconds, read from
// the MIT-SCREEN-SAVER extension. sysidle shells out to it, or to the
// compatible xprintidle, when an X display is the only idle source.
package main

import (
	"fmt"
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/screensaver"
	"github.com/jezek/xgb/xproto"
)

func main() {
	ms, err := queryIdle()
	if err != nil {
		fmt.Fprintf(os.Stderr, "x11idle: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(ms)
}

func queryIdle() (uint32, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	if err := screensaver.Init(conn); err != nil {
		return 0, err
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	info, err := screensaver.QueryInfo(conn, xproto.Drawable(root)).Reply()
	if err != nil {
		return 0, err
	}
	return info.MsSinceUserInput, nil
}
