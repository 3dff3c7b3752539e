package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/moffa90/go-sigmadsp/eeprom"
	"github.com/moffa90/go-sigmadsp/preview"
	"github.com/moffa90/go-sigmadsp/project"
	"github.com/moffa90/go-sigmadsp/protocol"
)

// newFlags returns a flag set for a subcommand that reports errors instead
// of exiting.
func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseAddress(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}

func runPing(ctx context.Context, e *env, args []string) error {
	dsp := e.dsp()
	if err := dsp.Ping(ctx); err != nil {
		return fmt.Errorf("DSP at 0x%02X: %w", e.opts.dspAddr, err)
	}
	fmt.Fprintf(e.out, "DSP at 0x%02X: ok\n", e.opts.dspAddr)

	prog, err := eeprom.New(e.bus, 64, eeprom.WithAddress(uint8(e.opts.eepromAddr)))
	if err != nil {
		return err
	}
	if err := prog.Ping(ctx); err != nil {
		fmt.Fprintf(e.out, "EEPROM at 0x%02X: %v\n", e.opts.eepromAddr, protocol.StatusOf(err))
		return nil
	}
	fmt.Fprintf(e.out, "EEPROM at 0x%02X: ok\n", e.opts.eepromAddr)
	return nil
}

func runVersion(ctx context.Context, e *env, args []string) error {
	fs := newFlags("version")
	kbit := fs.Int("kbit", 64, "EEPROM size in kbit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prog, err := eeprom.New(e.bus, *kbit, eeprom.WithAddress(uint8(e.opts.eepromAddr)))
	if err != nil {
		return err
	}
	v, err := prog.GetFirmwareVersion(ctx)
	if err != nil {
		return err
	}
	if v == protocol.EEPROMEmptyByte {
		fmt.Fprintln(e.out, "no version tag (0xFF)")
		return nil
	}
	fmt.Fprintf(e.out, "version %d\n", v)
	return nil
}

func runFlash(ctx context.Context, e *env, args []string) error {
	fs := newFlags("flash")
	kbit := fs.Int("kbit", 64, "EEPROM size in kbit")
	version := fs.Int("version", -1, "version tag; the image is skipped if the EEPROM holds it (-1 always writes)")
	delay := fs.Duration("delay", 5*time.Millisecond, "write cycle delay per byte")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one image file")
	}

	img, err := project.ParseFile(fs.Arg(0), project.ParseHexImage)
	if err != nil {
		return err
	}

	bar := newProgressBar(e.out)
	opts := []eeprom.Option{
		eeprom.WithAddress(uint8(e.opts.eepromAddr)),
		eeprom.WithWriteDelay(*delay),
		eeprom.WithLogger(kvLogger{log: lg}),
		eeprom.WithProgressCallback(bar.Update),
	}
	if e.opts.aux == "led" && e.aux != nil {
		opts = append(opts, eeprom.WithLEDPin(e.aux))
	}
	prog, err := eeprom.New(e.bus, *kbit, opts...)
	if err != nil {
		return err
	}

	// Keep the DSP off the bus while its boot EEPROM is rewritten.
	if e.opts.aux == "reset" && e.aux != nil {
		if err := e.aux.Set(false); err != nil {
			return fmt.Errorf("hold DSP in reset: %w", err)
		}
		defer func() {
			if err := e.aux.Set(true); err != nil {
				lg.Errorf("release DSP reset: %v", err)
			}
		}()
	}

	lg.Infof("flashing %d bytes from %s", len(img), fs.Arg(0))
	ok, err := prog.WriteFirmware(ctx, img, *version)
	if err != nil {
		var ve *eeprom.VerificationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w (check the EEPROM write protect pin)", err)
		}
		return err
	}
	if ok {
		fmt.Fprintln(e.out, "EEPROM verified")
	}
	return nil
}

func runDownload(ctx context.Context, e *env, args []string) error {
	fs := newFlags("download")
	reset := fs.Bool("reset", false, "pulse the DSP reset line first (needs -aux reset)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one IC_1.h file")
	}

	blocks, err := project.LoadDownload(fs.Arg(0))
	if err != nil {
		return err
	}

	dsp := e.dsp()
	if *reset {
		if err := dsp.Reset(ctx); err != nil {
			return err
		}
	}

	start := time.Now()
	if err := dsp.Download(ctx, blocks); err != nil {
		return err
	}
	bytes := 0
	for _, b := range blocks {
		bytes += len(b.Data)
	}
	fmt.Fprintf(e.out, "downloaded %d blocks (%d bytes) in %s\n", len(blocks), bytes, time.Since(start).Round(time.Millisecond))
	return nil
}

func runSet(ctx context.Context, e *env, args []string) error {
	fs := newFlags("set")
	paramsPath := fs.String("params", "", "SigmaStudio PARAM.h export")
	at := fs.String("at", "", "parameter address, instead of a module name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	var address uint16
	switch {
	case *at != "":
		a, err := parseAddress(*at)
		if err != nil {
			return err
		}
		address = a
	case *paramsPath != "" && len(rest) > 0:
		params, err := project.ParseFile(*paramsPath, project.ParseParams)
		if err != nil {
			return err
		}
		a, err := lookup(params, rest[0])
		if err != nil {
			return err
		}
		address = a
		rest = rest[1:]
	default:
		return fmt.Errorf("need -params and a module name, or -at")
	}

	blk, err := parseBlock(rest)
	if err != nil {
		return err
	}
	if err := apply(ctx, e.dsp(), address, blk); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s written at 0x%04X\n", blk.kind, address)
	return nil
}

// lookup finds the first cell of a module, or a single parameter.
func lookup(params *project.Params, name string) (uint16, error) {
	if m, ok := params.Module(name); ok {
		return m.Address(), nil
	}
	if p, ok := params.Param(name); ok {
		return p.Address, nil
	}
	return 0, fmt.Errorf("no module or parameter named %q", name)
}

func runReadback(ctx context.Context, e *env, args []string) error {
	fs := newFlags("readback")
	capture := fs.String("capture", "0", "capture count: the program address and register to capture")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected a data capture register (0x%04X or 0x%04X)",
			protocol.RegDataCapture0, protocol.RegDataCapture1)
	}

	reg, err := parseAddress(fs.Arg(0))
	if err != nil {
		return err
	}
	count, err := parseAddress(*capture)
	if err != nil {
		return err
	}

	v, err := e.dsp().ReadBack(ctx, reg, count)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%.6f (%.1f dBFS)\n", v, 20*math.Log10(math.Abs(v)))
	return nil
}

func runCoeffs(ctx context.Context, e *env, args []string) error {
	blk, err := parseBlock(args)
	if err != nil {
		return err
	}
	vs, err := cells(blk, e.opts.sampleRate)
	if err != nil {
		return err
	}
	for i, v := range vs {
		fmt.Fprintf(e.out, "%3d  %-14s %-5s %s\n", i, v, v.Kind(), v.Word())
	}
	return nil
}

// blockFlags collects repeated -block flags.
type blockFlags []blockDef

func (b *blockFlags) String() string {
	kinds := make([]string, len(*b))
	for i, s := range *b {
		kinds[i] = s.kind
	}
	return strings.Join(kinds, ",")
}

func (b *blockFlags) Set(s string) error {
	blk, err := parseBlock(strings.Fields(s))
	if err != nil {
		return err
	}
	*b = append(*b, blk)
	return nil
}

func runPreview(ctx context.Context, e *env, args []string) error {
	fs := newFlags("preview")
	in := fs.String("in", "", "input .wav or .mp3 file (default: a 1 kHz test tone)")
	out := fs.String("out", "preview.wav", "output .wav file")
	bits := fs.Int("bits", 16, "output bit depth (16 or 24)")
	var blocks blockFlags
	fs.Var(&blocks, "block", `block to apply, e.g. "eq type=lowShelf freq=120 boost=4" (repeatable)`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	buf := preview.Sine(1000, int(e.opts.sampleRate), int(e.opts.sampleRate), 0.5)
	if *in != "" {
		b, err := preview.ReadFile(*in)
		if err != nil {
			return err
		}
		buf = b
	}

	m := preview.New(float64(buf.Format.SampleRate))
	for _, b := range blocks {
		if err := addToModel(m, b); err != nil {
			return err
		}
	}

	before := make([]float64, buf.Format.NumChannels)
	for ch := range before {
		before[ch] = preview.Level(buf, ch)
	}
	if err := m.Process(buf); err != nil {
		return err
	}
	if err := preview.WriteFile(*out, buf, *bits); err != nil {
		return err
	}

	fmt.Fprintf(e.out, "%s: %s, %d Hz\n", *out, strings.Join(m.Blocks(), " -> "), buf.Format.SampleRate)
	for ch, l := range before {
		fmt.Fprintf(e.out, "  channel %d: %.1f dBFS -> %.1f dBFS\n", ch, l, preview.Level(buf, ch))
	}
	return nil
}
