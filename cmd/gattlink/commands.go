package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/shlex"

	"github.com/chaz8081/gattlink/internal/gatt"
)

// errQuit is returned by exec when the user asks to exit.
var errQuit = errors.New("quit")

// controller is the part of *gatt.Client driven by the command loop.
type controller interface {
	State() gatt.State
	Connect(device gatt.Device) error
	Reconnect() error
	Disconnect() error
	Close() error
	Bond() error
	Unbond() error
	Write(data []byte) error
	WriteSync(data []byte) error
	WriteUUID(data []byte, charUUID string) error
}

const usage = `commands:
  state                    print the connection state
  write <hex>              write to the info channel
  sync <hex>               write to the sync channel
  write-uuid <uuid> <hex>  write to a characteristic of the configured service
  bond | unbond            pair or unpair the device
  connect | reconnect      open or resume the connection
  disconnect | close       drop or release the connection
  quit`

// repl executes one command line at a time against a controller.
type repl struct {
	ctl    controller
	device gatt.Device
	out    io.Writer
}

// parseLine splits line into a command name and its arguments. Blank
// lines and comments yield an empty name.
func parseLine(line string) (string, []string, error) {
	fields, err := shlex.Split(line)
	if err != nil {
		return "", nil, fmt.Errorf("parsing command: %w", err)
	}
	if len(fields) == 0 {
		return "", nil, nil
	}
	return strings.ToLower(fields[0]), fields[1:], nil
}

// exec runs a single command line.
func (r *repl) exec(line string) error {
	name, args, err := parseLine(line)
	if err != nil {
		return err
	}

	switch name {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(r.out, usage)
		return nil
	case "quit", "exit":
		return errQuit
	case "state":
		fmt.Fprintln(r.out, r.ctl.State())
		return nil
	case "write":
		data, err := payload(name, args, 1)
		if err != nil {
			return err
		}
		return r.ctl.Write(data)
	case "sync":
		data, err := payload(name, args, 1)
		if err != nil {
			return err
		}
		return r.ctl.WriteSync(data)
	case "write-uuid":
		data, err := payload(name, args, 2)
		if err != nil {
			return err
		}
		return r.ctl.WriteUUID(data, args[0])
	case "bond":
		return r.ctl.Bond()
	case "unbond":
		return r.ctl.Unbond()
	case "connect":
		return r.ctl.Connect(r.device)
	case "reconnect":
		return r.ctl.Reconnect()
	case "disconnect":
		return r.ctl.Disconnect()
	case "close":
		return r.ctl.Close()
	default:
		return fmt.Errorf("unknown command %q (try \"help\")", name)
	}
}

// serve runs lines from input until the user quits or a signal arrives
// and returns that signal, nil on quit. Command errors go to errOut. Once
// input ends it keeps waiting for a signal.
func (r *repl) serve(input <-chan string, sigs <-chan os.Signal, errOut io.Writer) os.Signal {
	lines := input
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				slog.Info("Input closed, waiting for a signal to exit")
				lines = nil
				continue
			}
			if err := r.exec(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintf(errOut, "error: %v\n", err)
			}

		case sig := <-sigs:
			return sig
		}
	}
}

// payload decodes the hex argument in the last of want positions.
func payload(name string, args []string, want int) ([]byte, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%s: expected %d argument(s), got %d", name, want, len(args))
	}
	raw := strings.TrimPrefix(strings.ReplaceAll(args[want-1], " ", ""), "0x")
	data, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid hex payload: %w", name, err)
	}
	return data, nil
}
