package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	evdev "github.com/holoplot/go-evdev"
)

var version = "0.3.0"

const usage = `usage: clickauto <command> [flags]

commands:
  run [-dry-run] [-watch] <script>   execute a script through a virtual keyboard
  generate [-o file] <script>        print the script as generated code
  record [-o file] [-stop-key KEY]   record physical key strokes as a script
  keys                               list key names
  init                               write the default config.yml
  migrate                            upgrade config.yml to the latest version
  version                            print the version
`

// env bundles what every command needs from config.yml.
type env struct {
	dir    string
	cfg    AppConfig
	report Reporter
	close  func() error
}

func loadEnv() (*env, error) {
	dir := configDir()
	cfg, err := LoadAppConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("load app config: %w", err)
	}
	warnOutdatedConfig(os.Stderr, cfg)
	setDebug(cfg.Log.Debug)
	w, closeLog := diagnosticsWriter(cfg.Log)
	dbg("config dir %s (version %d)", dir, cfg.ConfigVersion)
	return &env{dir: dir, cfg: cfg, report: newLineReporter(w), close: closeLog}, nil
}

func readScript(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(data), nil
}

func writeOutput(path, code string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, code)
		return err
	}
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "clickauto: wrote %s\n", path)
	return nil
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "print key events instead of injecting them")
	watch := fs.Bool("watch", false, "apply keyboard timing changes from config.yml while running")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("run: expected one script path (or - for stdin)")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	src, err := readScript(fs.Arg(0))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var robot Robot
	if *dryRun {
		robot = &logRobot{out: os.Stdout}
	} else {
		r, err := newUinputRobot(e.cfg.Device.Path, e.cfg.Device.Name)
		if err != nil {
			return fmt.Errorf("%w\nMake sure you can write %s (e.g. add a udev rule for the 'input' group)", err, e.cfg.Device.Path)
		}
		defer r.Close()
		robot = r
	}

	kb := NewScriptKeyboard(ctx, robot, e.report)
	kb.SetDefaultLayout(e.cfg.Keyboard.Layout)
	e.cfg.Keyboard.Apply(kb)

	if *watch {
		if err := watchConfig(ctx, e.dir, kb, e.report); err != nil {
			return err
		}
	}

	session := &Session{Keyboard: kb, Report: e.report}
	if err := session.Run(src); err != nil {
		if errors.Is(err, ErrStopped) {
			fmt.Println("\nclickauto: stopped")
			return nil
		}
		return err
	}
	return nil
}

func cmdGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	out := fs.String("o", "", "write generated code to `file` instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("generate: expected one script path (or - for stdin)")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	src, err := readScript(fs.Arg(0))
	if err != nil {
		return err
	}

	code := generateScript(src, e.cfg.Codegen.LineSize, e.report)
	return writeOutput(*out, code)
}

// generateScript replays src into code generators and returns the recorded
// calls in script order.
func generateScript(src string, lineSize int, report Reporter) string {
	kbGen := NewKeyboardCodeGenerator(lineSize)
	cbGen := NewClipboardCodeGenerator(lineSize)

	var code strings.Builder
	session := &Session{
		Keyboard:  kbGen,
		Clipboard: cbGen,
		Report:    report,
		AfterCall: func(Call) {
			for _, g := range []*CodeGenerator{kbGen.CodeGenerator, cbGen.CodeGenerator} {
				code.WriteString(g.GeneratedCode())
				g.Reset()
			}
		},
	}
	// Generators never return ErrStopped.
	_ = session.Run(src)
	return code.String()
}

// resolveStopKey maps the record -stop-key flag to a key code. An empty
// name disables the stop key.
func resolveStopKey(name string) (evdev.EvCode, error) {
	if name == "" {
		return KeyUndefined, nil
	}
	code := ResolveKey(name)
	if code == KeyUndefined {
		return KeyUndefined, fmt.Errorf("record: unknown stop key %q", name)
	}
	return code, nil
}

func cmdRecord(args []string) error {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	out := fs.String("o", "", "write recorded code to `file` instead of stdout")
	stopName := fs.String("stop-key", "PAUSE", "key that ends the recording (empty to disable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stopKey, err := resolveStopKey(*stopName)
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	keyboards, err := FindKeyboards(e.cfg.Device.Name)
	if err != nil {
		return fmt.Errorf("find keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found\nMake sure you are in the 'input' group:\n  sudo usermod -aG input $USER\nThen log out and back in")
	}

	gen := NewKeyboardCodeGenerator(e.cfg.Codegen.LineSize)
	rec := NewRecorder(gen, stopKey, e.report)

	fmt.Fprintf(os.Stderr, "clickauto: recording %d keyboard(s), press %s or Ctrl+C to stop\n",
		len(keyboards), *stopName)
	for _, kb := range keyboards {
		name, _ := kb.Name()
		fmt.Fprintf(os.Stderr, "  %s\n", name)
	}

	ch := make(chan KeyEvent, 64)
	var wg sync.WaitGroup
	for _, kb := range keyboards {
		wg.Add(1)
		go MonitorKeyboard(kb, ch, &wg)
	}
	go func() {
		wg.Wait()
		close(ch)
	}()

	var once sync.Once
	closeAll := func() {
		once.Do(func() {
			for _, kb := range keyboards {
				kb.Close()
			}
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			closeAll()
		}
	}()

	stopped := false
	for ev := range ch {
		if stopped {
			continue
		}
		if rec.HandleEvent(ev) {
			stopped = true
			closeAll()
		}
	}
	rec.Flush()

	fmt.Fprintln(os.Stderr, "\nclickauto: recording finished")
	return writeOutput(*out, gen.GeneratedCode())
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(os.Args[2:])
	case "generate":
		err = cmdGenerate(os.Args[2:])
	case "record":
		err = cmdRecord(os.Args[2:])
	case "keys":
		for _, name := range KnownKeyNames() {
			fmt.Println(name)
		}
	case "init":
		dir := configDir()
		fmt.Printf("clickauto: initializing config in %s\n", dir)
		if err = initConfig(dir); err == nil {
			fmt.Println("clickauto: config initialized")
		}
	case "migrate":
		err = migrateConfig(configDir())
	case "version":
		fmt.Printf("clickauto %s\n", version)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "clickauto: %v\n", err)
		os.Exit(1)
	}
}
