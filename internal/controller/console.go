package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"
	"github.com/sharetube/client/pkg/mediatime"
)

// ErrQuit is returned by Console.Run when the user asks to leave.
var ErrQuit = errors.New("quit requested")

const consoleHelp = `commands:
  play              play for everyone
  pause             pause for everyone
  toggle            play if paused, pause otherwise
  seek <time>       seek everyone to 90, 1m30s or 1h 2m 3s
  who               list participants
  log               show recent activity
  quit              leave the room`

var completer = readline.NewPrefixCompleter(
	readline.PcItem("play"),
	readline.PcItem("pause"),
	readline.PcItem("toggle"),
	readline.PcItem("seek"),
	readline.PcItem("who"),
	readline.PcItem("log"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

// Console reads commands from the terminal and turns them into room intents.
type Console struct {
	c  *controller
	rl *readline.Instance
}

func (c *controller) NewConsole(prompt string) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open console: %w", err)
	}

	return &Console{c: c, rl: rl}, nil
}

// Run reads commands until ctx is done, input ends or the user quits.
func (con *Console) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { con.rl.Close() })
	defer stop()
	defer con.rl.Close()

	out := con.rl.Stdout()
	fmt.Fprintln(out, `type "help" for commands`)

	for {
		line, err := con.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrQuit
			}
			return fmt.Errorf("failed to read command: %w", err)
		}

		if err := con.c.exec(ctx, line, out); err != nil {
			if errors.Is(err, ErrQuit) {
				return err
			}
			fmt.Fprintln(out, "error:", err)
		}
	}
}

func (c controller) exec(ctx context.Context, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	c.logger.DebugContext(ctx, "console command", "command", cmd, "args", args)

	switch cmd {
	case "play":
		return c.room.Do(ctx, c.room.PlayIntent)
	case "pause":
		return c.room.Do(ctx, c.room.PauseIntent)
	case "toggle":
		return c.room.Do(ctx, c.room.Toggle)
	case "seek":
		if len(args) == 0 {
			return errors.New("usage: seek <time>")
		}
		position, ok := mediatime.ParseDuration(strings.Join(args, " "))
		if !ok {
			return fmt.Errorf("cannot parse %q as a time", strings.Join(args, " "))
		}
		return c.room.Do(ctx, func() error { return c.room.RequestSeek(position) })
	case "who":
		return c.writeRoster(out)
	case "log":
		return c.writeActivity(ctx, out)
	case "help", "?":
		fmt.Fprintln(out, consoleHelp)
		return nil
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c controller) writeRoster(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTIME\tBUFFERED\tSTATE\tBADGES")

	for _, row := range c.room.Table().Rows() {
		id := "-"
		if row.UserID != nil {
			id = fmt.Sprint(*row.UserID)
		}

		name := row.Name
		if row.IsSelf {
			name += " (you)"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			id, name, row.Time, row.Buffered, row.State, strings.Join(row.Badges, ","))
	}

	return tw.Flush()
}

func (c controller) writeActivity(ctx context.Context, out io.Writer) error {
	s, err := c.snapshot(ctx)
	if err != nil {
		return err
	}

	for _, line := range s.Activity {
		fmt.Fprintf(out, "%s  %s\n", line.At.Format("15:04:05"), line.Text)
		if line.Detail != "" {
			fmt.Fprintf(out, "          %s\n", line.Detail)
		}
	}

	return nil
}
