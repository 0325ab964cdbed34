package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli"
	"gitlab.com/gomidi/midi/v2"

	"github.com/chase3718/lispboard/internal/board"
)

// -------------------- Logger --------------------

// logger is the package-wide structured logger. Safe to use before initLogger
// is called; defaults to slog.Default().
var logger = slog.Default()

// initLogger configures the shared slog logger and calls slog.SetDefault so
// the stdlib log package also routes through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug, // include file:line in debug mode
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// -------------------- Flags --------------------

var (
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "YAML controller map (CC numbers, bank pads, device patterns)",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "enable debug logging (adds source location)",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "disable colours in terminal output",
	}
	jsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "print the serialized state and result mapping instead of the table",
	}
	controlsFlag = cli.BoolFlag{
		Name:  "controls",
		Usage: "print the fader and knob tables on every turn",
	}
	serialFlag = cli.StringFlag{
		Name:  "serial",
		Usage: "serial device receiving a result frame per turn (optional)",
	}
	baudFlag = cli.IntFlag{
		Name:  "baud",
		Usage: "serial baud rate (overrides the config file)",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "lispboard"
	app.Usage = "evaluate prefix expressions built live on a MIDI control surface"
	app.Flags = []cli.Flag{configFlag, debugFlag, noColorFlag}
	app.Before = func(c *cli.Context) error {
		initLogger(c.GlobalBool("debug"))
		color.NoColor = color.NoColor || c.GlobalBool("no-color")
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Listen to the controller and print every evaluation turn",
			Flags:   []cli.Flag{jsonFlag, controlsFlag, serialFlag, baudFlag},
			Action: func(c *cli.Context) error {
				return runLive(c, false)
			},
		},
		{
			Name:  "ui",
			Usage: "Like run, and draw the registers in a window",
			Flags: []cli.Flag{jsonFlag, controlsFlag, serialFlag, baudFlag},
			Action: func(c *cli.Context) error {
				return runLive(c, true)
			},
		},
		{
			Name:      "replay",
			Usage:     "Feed a YAML event script through the evaluator",
			ArgsUsage: "<script.yaml|->",
			Flags: []cli.Flag{
				jsonFlag,
				controlsFlag,
				cli.BoolFlag{Name: "every", Usage: "print every turn, not only the last"},
			},
			Action: replay,
		},
		{
			Name:   "ports",
			Usage:  "List MIDI inputs and the one that would be picked",
			Action: ports,
		},
	}

	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("lispboard failed", "err", err)
		os.Exit(1)
	}
}

// -------------------- Commands --------------------

func runLive(c *cli.Context, window bool) error {
	cfg, err := loadConfig(c.GlobalString("config"))
	if err != nil {
		return err
	}
	if v := c.String("serial"); v != "" {
		cfg.Serial.Device = v
	}
	if v := c.Int("baud"); v > 0 {
		cfg.Serial.Baud = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("lispboard starting",
		"preferred", cfg.Device.Preferred,
		"serial", cfg.Serial.Device,
		"window", window,
		"fader_cc", cfg.Controls.FaderCC,
		"type_cc", cfg.Controls.TypeCC,
		"val_cc", cfg.Controls.ValCC,
	)

	sinks := []Sink{NewTerminalSink(os.Stdout, c.Bool("json"), c.Bool("controls"))}
	if cfg.Serial.Device != "" {
		sp, err := OpenSerial(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			logger.Warn("serial: output disabled", "err", err)
		} else {
			defer sp.Close()
			sinks = append(sinks, sp)
		}
	}
	var win *WindowSink
	if window {
		win = NewWindowSink(ctx)
		sinks = append(sinks, win)
	}

	eng := NewEngine(cfg.Controls.Layout(), sinks...)

	onMessage := func(msg midi.Message) {
		if ev, ok := cfg.Controls.Translate(msg); ok {
			eng.Submit(ctx, ev)
		}
	}
	onDisconnect := func() {
		logger.Warn("midi: controller lost, state kept until it reconnects")
	}
	watcher, err := NewMIDIWatcher(cfg.Device, onMessage, onDisconnect)
	if err != nil {
		// No MIDI backend: keep running so the sinks still show the state.
		logger.Warn("midi: input disabled", "err", err)
	} else {
		defer watcher.Close()
		watcher.Tick()
		go watchLoop(ctx, watcher, cfg.Device.Rescan)
	}

	if !window {
		return ignoreCanceled(eng.Run(ctx))
	}
	go func() {
		if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("engine stopped", "err", err)
		}
	}()
	err = runWindow(win)
	stop()
	return err
}

func watchLoop(ctx context.Context, w *MIDIWatcher, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

func ignoreCanceled(err error) error {
	if err == context.Canceled {
		logger.Info("lispboard stopped")
		return nil
	}
	return err
}

func replay(c *cli.Context) error {
	cfg, err := loadConfig(c.GlobalString("config"))
	if err != nil {
		return err
	}
	in, name, err := openScript(c.Args().First())
	if err != nil {
		return err
	}
	defer in.Close()

	events, err := readScript(in)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Debug("replay: script loaded", "file", name, "events", len(events))
	return replayEvents(os.Stdout, cfg, events, c.Bool("json"), c.Bool("controls"), c.Bool("every"))
}

// replayEvents runs events through a fresh engine and writes the final
// projection, or every projection when every is set.
func replayEvents(w io.Writer, cfg Config, events []board.Event, jsonMode, controls, every bool) error {
	out := NewTerminalSink(w, jsonMode, controls)
	var eng *Engine
	if every {
		eng = NewEngine(cfg.Controls.Layout(), out)
	} else {
		eng = NewEngine(cfg.Controls.Layout())
	}
	p := eng.Reset()
	for _, ev := range events {
		p = eng.Handle(ev)
	}
	if every {
		return nil
	}
	return out.Render(p)
}

func openScript(arg string) (io.ReadCloser, string, error) {
	switch arg {
	case "":
		return nil, "", fmt.Errorf("replay: missing script argument")
	case "-":
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, "", err
	}
	return f, arg, nil
}

func ports(c *cli.Context) error {
	cfg, err := loadConfig(c.GlobalString("config"))
	if err != nil {
		return err
	}
	w, err := NewMIDIWatcher(cfg.Device, nil, nil)
	if err != nil {
		return err
	}
	defer w.Close()

	eligible := w.Inputs()
	if len(eligible) == 0 {
		fmt.Println("no eligible MIDI inputs")
		return nil
	}
	for _, name := range eligible {
		fmt.Println(" ", name)
	}
	if pick, ok := pickPreferred(cfg.Device.Preferred, eligible); ok {
		fmt.Printf("would connect to %q\n", pick)
	} else {
		fmt.Println("no preferred input found")
	}
	return nil
}
