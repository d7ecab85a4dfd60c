// Command vtview spawns $SHELL inside a pseudo-terminal, puts the
// controlling terminal into raw mode, and streams the shell's output
// through a terminal buffer so the rendered screen can be dumped on
// exit (or after every read, with --watch). It demonstrates driving the
// parser and terminal buffer against a live, interactive byte stream
// rather than a fixed test vector.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/cliofy/vtstream/terminal"
	"github.com/creack/pty"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

func shellCommand() (string, []string) {
	sh := os.Getenv("SHELL")
	if sh == "" {
		sh = "/bin/sh"
	}
	return sh, nil
}

func run(c *cli.Context) error {
	width, height, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	name, args := shellCommand()
	cmd := exec.Command(name, args...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("starting %s in a pty: %w", name, err)
	}
	defer ptmx.Close()

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)}); err != nil {
		return fmt.Errorf("setting pty size: %w", err)
	}

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
				_ = pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(h), Cols: uint16(w)})
			}
		}
	}()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	buffer := terminal.NewTerminalBuffer(width, height)
	parser := terminal.NewBufferParser(buffer)

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()

	watch := c.Duration("watch")
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				parser.Write(buf[:n])
				if watch > 0 {
					fmt.Print(terminal.MoveTo(0, 0) + terminal.ClearScreen())
					renderFrame(buffer, c.Bool("colors"))
				}
			}
			if err != nil {
				return
			}
		}
	}()

	<-done
	_, _ = cmd.Process.Wait()

	term.Restore(int(os.Stdin.Fd()), oldState)
	renderFrame(buffer, c.Bool("colors"))
	return nil
}

func renderFrame(buffer *terminal.TerminalBuffer, colors bool) {
	if colors {
		fmt.Print(buffer.GetDisplayWithColors())
	} else {
		fmt.Print(buffer.GetDisplay())
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "vtview"
	app.Usage = "render a shell session's screen through a terminal buffer"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "colors, c", Usage: "render with ANSI color codes preserved"},
		cli.DurationFlag{Name: "watch", Usage: "redraw the rendered frame after every read instead of only at exit"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
