// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ezrec/ls8/emulator"
	ls8io "github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/translate"
)

// osFS opens names as host paths.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func main() {
	os.Exit(run())
}

func run() int {
	var compile string
	var save bool
	var output string
	var trace bool
	var verbose bool
	var period time.Duration
	var lang string
	defines := map[string]string{}

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.BoolVar(&save, "s", false, "Save compiled image, do not execute")
	flag.StringVar(&output, "o", "-", "Saved image output")
	flag.Func("D", "Assembler define NAME=VALUE (repeatable)", func(arg string) error {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || len(name) == 0 {
			return errors.New(translate.From("expected NAME=VALUE"))
		}
		defines[name] = value
		return nil
	})
	flag.BoolVar(&trace, "t", false, "Trace every tick")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.DurationVar(&period, "timer", ls8io.TIMER_PERIOD, "Timer interrupt period")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47)")

	flag.Parse()

	if len(lang) != 0 {
		translate.SetLanguage(lang)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Trace = trace
	emu.Predefine = defines
	emu.Cpu.Timer = &ls8io.Timer{Period: period}

	if len(compile) != 0 {
		if flag.NArg() != 0 {
			log.Printf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
			return 2
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Printf("%v: %v", compile, err)
			return 1
		}
		defer inf.Close()

		err = emu.Assemble(compile, inf)
		if err != nil {
			log.Print(err)
			return 1
		}

		if save {
			return saveImage(emu, output)
		}
	} else if save || flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	keyboard, err := ls8io.NewTerminal(os.Stdin)
	switch {
	case err == nil:
		defer keyboard.Close()
		emu.Cpu.Keyboard = keyboard
	case errors.Is(err, ls8io.ErrNotTerminal):
		// No keyboard.
	default:
		log.Printf("stdin: %v", err)
	}

	if len(compile) != 0 {
		err = emu.Run(ctx)
		if err != nil {
			log.Print(err)
			return 1
		}
		return 0
	}

	failed := 0
	for _, result := range emu.Batch(ctx, osFS{}, flag.Args()...) {
		if result.Err != nil {
			failed++
		}
		if verbose {
			translate.Fprintf(os.Stderr, "%v: %d ticks\n", result.Name, result.Ticks)
		}
	}
	if failed != 0 {
		return 1
	}

	return 0
}

// saveImage writes the assembled program as an image file.
func saveImage(emu *emulator.Emulator, output string) int {
	ouf := os.Stdout
	if output != "-" {
		var err error
		ouf, err = os.Create(output)
		if err != nil {
			log.Printf("%v: %v", output, err)
			return 1
		}
		defer ouf.Close()
	}

	err := emu.Program.WriteImage(ouf)
	if err != nil {
		log.Printf("%v: %v", output, err)
		return 1
	}

	return 0
}
