// Command mbdump decodes a multiboot2 boot information blob captured from a
// running machine (e.g. with the QEMU "pmemsave" monitor command) using the
// same parser that the kernel runs at boot.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"bootcore/kernel/kfmt"
	"bootcore/multiboot"

	"golang.org/x/term"
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[mbdump] error: %s\n", err.Error())
	os.Exit(1)
}

type options struct {
	base   uintptr
	magic  uint32
	format string
	color  string
	file   string
}

func parseOptions(args []string, errOut io.Writer) (*options, error) {
	fs := flag.NewFlagSet("mbdump", flag.ContinueOnError)
	fs.SetOutput(errOut)

	base := fs.String("base", "0", "the physical address the blob was captured from; tag alignment is computed on absolute addresses")
	magic := fs.String("magic", strconv.FormatUint(uint64(multiboot.Magic), 0), "the bootloader magic value to verify before parsing")
	format := fs.String("format", "text", "output format (text or yaml)")
	color := fs.String("color", "auto", "colorize text output (auto, always or never)")
	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: mbdump [options] boot-info-file\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() != 1 {
		return nil, errors.New("missing boot info file argument")
	}

	opts := &options{format: *format, color: *color, file: fs.Arg(0)}

	baseVal, err := strconv.ParseUint(*base, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid base address %q: %w", *base, err)
	}
	opts.base = uintptr(baseVal)

	magicVal, err := strconv.ParseUint(*magic, 0, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid magic value %q: %w", *magic, err)
	}
	opts.magic = uint32(magicVal)

	switch opts.format {
	case "text", "yaml":
	default:
		return nil, fmt.Errorf("invalid output format %q; supported values are: text or yaml", opts.format)
	}

	switch opts.color {
	case "auto", "always", "never":
	default:
		return nil, fmt.Errorf("invalid color mode %q; supported values are: auto, always or never", opts.color)
	}

	return opts, nil
}

// useColor reports whether text written to out should carry SGR sequences.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	data, release, err := mapFile(opts.file)
	if err != nil {
		return err
	}
	defer release()

	info := multiboot.NewInfo(opts.base, data)

	if opts.format == "yaml" {
		if opts.magic != multiboot.Magic {
			return fmt.Errorf("invalid magic value 0x%x", opts.magic)
		}
		report, err := buildReport(info)
		if err != nil {
			return err
		}
		return report.encode(stdout)
	}

	sink := newColorWriter(stdout, useColor(opts.color, stdout))
	kfmt.SetOutputSink(sink)
	defer func() {
		kfmt.SetOutputSink(nil)
		sink.Reset()
	}()

	if !multiboot.VerifyMagic(opts.magic) {
		return fmt.Errorf("invalid magic value 0x%x", opts.magic)
	}

	if _, kerr := multiboot.Parse(info); kerr != nil {
		return fmt.Errorf("parse %s: %w", opts.file, kerr)
	}

	kfmt.Printc(kfmt.Green, kfmt.Black, "\ntotal available memory: %d bytes\n", multiboot.TotalAvailableMemory(info))
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		exit(err)
	}
}
