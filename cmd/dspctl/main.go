// Command dspctl talks to an ADAU1701 and its boot EEPROM from the command
// line: it downloads SigmaStudio programs, sets block parameters, flashes
// boot images and previews block settings offline.
//
// Usage:
//
//	dspctl [global flags] <command> [command flags] [args]
//
// Run "dspctl help" for the list of commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	logger "github.com/d2r2/go-logger"

	"github.com/moffa90/go-sigmadsp/bus"
	"github.com/moffa90/go-sigmadsp/bus/buspirate"
	"github.com/moffa90/go-sigmadsp/bus/bustest"
	"github.com/moffa90/go-sigmadsp/bus/i2cdev"
	"github.com/moffa90/go-sigmadsp/protocol"
	"github.com/moffa90/go-sigmadsp/sigmadsp"
)

// options holds the global flags.
type options struct {
	bus        string
	dspAddr    uint
	eepromAddr uint
	sampleRate float64
	clock      uint
	aux        string
	timeout    time.Duration
	verbose    bool
}

// env is what a command runs with. bus is nil for commands that work
// offline.
type env struct {
	opts options
	bus  bus.Bus
	aux  bus.Pin
	out  io.Writer
}

func (e *env) dsp() *sigmadsp.DSP {
	opts := []sigmadsp.Option{
		sigmadsp.WithAddress(uint8(e.opts.dspAddr)),
		sigmadsp.WithSampleRate(e.opts.sampleRate),
		sigmadsp.WithLogger(kvLogger{log: lg}),
	}
	if e.opts.aux == "reset" && e.aux != nil {
		opts = append(opts, sigmadsp.WithResetPin(e.aux))
	}
	return sigmadsp.New(e.bus, opts...)
}

type command struct {
	name    string
	args    string
	summary string
	offline bool
	run     func(ctx context.Context, e *env, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{name: "ping", summary: "check that the DSP and EEPROM answer", run: runPing},
		{name: "version", args: "[-kbit N]", summary: "read the boot image version tag", run: runVersion},
		{name: "flash", args: "[-kbit N] [-version V] E2Prom.Hex", summary: "write a boot image to the EEPROM", run: runFlash},
		{name: "download", args: "[-reset] IC_1.h", summary: "download a SigmaStudio program to the DSP", run: runDownload},
		{name: "set", args: "-params PARAM.h <module> <block> [key=value...]", summary: "compute and write a block's parameters", run: runSet},
		{name: "readback", args: "[-capture 0xNNNN] <register>", summary: "read a data capture register", run: runReadback},
		{name: "coeffs", args: "<block> [key=value...]", summary: "print the cells of a block", offline: true, run: runCoeffs},
		{name: "preview", args: "-in file -out file.wav -block \"...\"", summary: "render audio through a software model of blocks", offline: true, run: runPreview},
	}
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Usage: dspctl [global flags] <command> [command flags] [args]")
	fmt.Fprintln(w, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
		if c.args != "" {
			fmt.Fprintf(w, "            dspctl %s %s\n", c.name, c.args)
		}
	}
	fmt.Fprintf(w, "\nBlocks: %s\n", strings.Join(blockKinds(), ", "))
	fmt.Fprintln(w, "\nGlobal flags:")
	fs.PrintDefaults()
}

func main() {
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	logger.FinalizeLogger()
	os.Exit(code)
}

func run(argv []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("dspctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.bus, "bus", "i2c:1", `bus to use: "i2c:N" for /dev/i2c-N, "buspirate:PORT" or "sim" for a simulated DSP and EEPROM`)
	fs.UintVar(&opts.dspAddr, "addr", protocol.DefaultDSPAddress, "7-bit DSP address")
	fs.UintVar(&opts.eepromAddr, "eeprom-addr", protocol.DefaultEEPROMAddress, "7-bit EEPROM address")
	fs.Float64Var(&opts.sampleRate, "fs", 48000, "DSP sample rate in Hz")
	fs.UintVar(&opts.clock, "clock", 0, "bus clock in Hz (0 leaves it unchanged)")
	fs.StringVar(&opts.aux, "aux", "none", `use of the Bus Pirate AUX pin: "reset", "led" or "none"`)
	fs.DurationVar(&opts.timeout, "timeout", 0, "abort after this long (0 for no limit)")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(argv); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 || fs.Arg(0) == "help" {
		usage(fs)
		return 2
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == fs.Arg(0) {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "dspctl: unknown command %q\n", fs.Arg(0))
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	e := &env{opts: opts, out: stdout}
	if !cmd.offline {
		b, aux, closer, err := openBus(opts)
		if err != nil {
			fmt.Fprintf(stderr, "dspctl: %v\n", err)
			return 1
		}
		if closer != nil {
			defer closer.Close()
		}
		e.bus, e.aux = b, aux

		if opts.clock > 0 {
			if err := b.SetClockSpeed(uint32(opts.clock)); err != nil {
				lg.Errorf("set bus clock: %v", err)
			}
		}
	}
	if err := setVerbose(opts.verbose); err != nil {
		lg.Warnf("%v", err)
	}

	if err := cmd.run(ctx, e, fs.Args()[1:]); err != nil {
		fmt.Fprintf(stderr, "dspctl %s: %v\n", cmd.name, err)
		return 1
	}
	return 0
}

// openBus opens the transport named by opts.bus.
func openBus(opts options) (bus.Bus, bus.Pin, io.Closer, error) {
	kind, arg, _ := strings.Cut(opts.bus, ":")
	switch kind {
	case "i2c":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid i2c adapter %q", arg)
		}
		b, err := i2cdev.Open(n)
		if err != nil {
			return nil, nil, nil, err
		}
		return b, nil, b, nil
	case "buspirate":
		if arg == "" {
			return nil, nil, nil, fmt.Errorf("buspirate needs a serial port, e.g. buspirate:/dev/ttyUSB0")
		}
		b, err := buspirate.Open(arg)
		if err != nil {
			return nil, nil, nil, err
		}
		return b, b.AUX(), b, nil
	case "sim":
		b := bustest.NewBus()
		b.Attach(uint8(opts.dspAddr), bustest.NewDSP())
		b.Attach(uint8(opts.eepromAddr), bustest.NewEEPROM(512))
		return b, &bustest.Pin{}, nil, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown bus %q", opts.bus)
}
