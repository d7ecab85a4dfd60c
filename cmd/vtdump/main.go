// Command vtdump logs every event a control-sequence stream produces:
// printable runs, C0/C1 controls, escape sequences, CSI, OSC, and DCS.
// It reads a byte stream from a file (or stdin, by default) and prints
// one line per recognized event, which makes it useful for inspecting
// exactly how a given sequence gets decoded.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cliofy/vtstream"
	"github.com/urfave/cli"
)

type eventLogger struct{}

func (eventLogger) Printf(format string, v ...any) {
	fmt.Fprintf(os.Stderr, "[unhandled] "+format+"\n", v...)
}

func newDumpCallbacks() *vtstream.Callbacks {
	return &vtstream.Callbacks{
		Text: func(b []byte, remaining int) int {
			r, size := decodeRune(b)
			fmt.Printf("text  %q\n", r)
			return size
		},
		Control: func(b byte) bool {
			fmt.Printf("control 0x%02x%s\n", b, controlName(b))
			return true
		},
		Escape: func(seq []byte) bool {
			fmt.Printf("escape intermediates=%q final=%q\n", seq[:len(seq)-1], seq[len(seq)-1:])
			return true
		},
		CSI: func(leader []byte, args *vtstream.CSIArgs, intermed []byte, final byte) bool {
			vals := make([]int32, args.Len())
			for i := range vals {
				vals[i] = args.Get(i)
			}
			fmt.Printf("csi   leader=%q args=%v intermed=%q final=%q\n", leader, vals, intermed, final)
			return true
		},
		OSC: func(command int32, frag vtstream.StringFragment) bool {
			fmt.Printf("osc   command=%d text=%q initial=%v final=%v\n",
				command, frag.Bytes, frag.Initial, frag.Final)
			return true
		},
		DCS: func(command []byte, frag vtstream.StringFragment) bool {
			fmt.Printf("dcs   command=%q data=%q initial=%v final=%v\n",
				command, frag.Bytes, frag.Initial, frag.Final)
			return true
		},
	}
}

func run(c *cli.Context) error {
	var in io.Reader = os.Stdin
	if path := c.Args().First(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		in = f
	}

	parser := vtstream.NewParser()
	parser.SetCallbacks(newDumpCallbacks(), nil)
	parser.SetLogger(eventLogger{})
	parser.SetUTF8Mode(c.Bool("utf8"))

	buf := make([]byte, 4096)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			parser.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "vtdump"
	app.Usage = "print one line per control-sequence event parsed from a byte stream"
	app.ArgsUsage = "[file]"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "utf8", Usage: "treat bytes 0x80-0x9F as text (UTF-8 continuations) instead of C1 controls"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
