package main

import (
	"fmt"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/flightlink/mavconn"
	"github.com/flightlink/mavconn/frame"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mavtop [url]",
	Short: "Live per-vehicle traffic monitor for a MAVLink link",
	Long: `mavtop opens a MAVLink link and shows a live table of every
system/component pair seen on it: message totals, heartbeat rate, the
last message name, and how long ago it arrived.

With no argument it listens for UDP broadcast traffic on the default
ground station port. Supported URLs:

  serial:///dev/ttyUSB0:57600
  udp://:14550@
  udp://@192.168.1.5:14550
  tcp://192.168.1.5:5760
  tcp-l://:5760

Key bindings:
  q / Ctrl+C       Quit`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := "udp://@"
		if len(args) == 1 {
			url = args[0]
		}
		return run(url)
	},
}

func run(url string) error {
	// The channel is opened before the program exists, so handlers load
	// the program pointer and drop events that arrive too early.
	var prog atomic.Pointer[tea.Program]

	dialect := frame.Common()
	ch, err := mavconn.OpenURL(url,
		mavconn.WithMessageHandler(func(m *frame.Message) {
			if p := prog.Load(); p != nil {
				p.Send(frameMsg{
					sysID:  m.SysID,
					compID: m.CompID,
					id:     m.ID,
					name:   dialect.Name(m.ID),
				})
			}
		}),
		mavconn.WithClosedHandler(func() {
			if p := prog.Load(); p != nil {
				p.Send(linkClosedMsg{})
			}
		}))
	if err != nil {
		return err
	}
	defer ch.Close()

	p := tea.NewProgram(newModel(url, ch), tea.WithAltScreen())
	prog.Store(p)
	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
