package main

import (
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/elliottpearl/libertinus-analysis/core"
	"github.com/elliottpearl/libertinus-analysis/engine/inspect"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object
type Intp struct {
	app  *App
	repl *readline.Instance
}

func startREPL(app *App) error {
	var items []readline.PrefixCompleterInterface
	for _, name := range append(operationNames(), settingNames...) {
		items = append(items, readline.PcItem(name))
	}
	items = append(items, readline.PcItem("help"), readline.PcItem("quit"))
	repl, err := readline.NewEx(&readline.Config{
		Prompt:          "libertinus > ",
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot start interactive mode")
	}
	defer repl.Close()
	pterm.Info.Println("Welcome to libertinus, quit with <ctrl>D")
	intp := &Intp{app: app, repl: repl}
	intp.REPL()
	return nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		quit, err := intp.execute(line)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			tracer().Errorf("%v", err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Command is a parsed input line.
type Command struct {
	name string
	args []string
}

func parseCommand(line string) (Command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{name: strings.ToLower(fields[0]), args: fields[1:]}, true
}

// settingNames are the commands changing the settings of the application.
var settingNames = []string{"font", "pairs", "bases", "marks", "classifier", "builder",
	"lookup", "out", "trace", "show"}

// execute executes an input line. It returns true if the user wants to quit.
func (intp *Intp) execute(line string) (bool, error) {
	cmd, ok := parseCommand(line)
	if !ok {
		return false, nil
	}
	tracer().Debugf("command %s %v", cmd.name, cmd.args)
	app := intp.app
	arg := strings.Join(cmd.args, " ")
	switch cmd.name {
	case "quit", "exit":
		return true, nil
	case "help":
		help(arg)
	case "font":
		app.Fonts = splitList(arg)
	case "pairs":
		if arg == "" {
			app.Pairs = nil
			return false, nil
		}
		pairs, err := inspect.ParsePairs(arg)
		if err != nil {
			return false, err
		}
		app.Pairs = pairs
	case "bases":
		app.Bases = splitList(arg)
	case "marks":
		app.Marks = splitList(arg)
	case "classifier":
		app.Classifier = arg
	case "builder":
		app.Builder = arg
	case "out":
		app.Out = arg
	case "lookup":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, core.Error(core.EUSAGE, "lookup index not numeric: %q", arg)
		}
		app.Lookup = n
	case "trace":
		return false, setTraceLevel(arg)
	case "show":
		intp.show()
	default:
		return false, app.Execute(cmd.name, cmd.args)
	}
	return false, nil
}

func (intp *Intp) show() {
	app := intp.app
	pairs := make([]string, len(app.Pairs))
	for i, p := range app.Pairs {
		pairs[i] = p.String()
	}
	pterm.Printfln("fonts      = %v (in %s)", app.Fonts, app.Registry.Dir())
	pterm.Printfln("pairs      = %s", strings.Join(pairs, ", "))
	pterm.Printfln("bases      = %v", app.Bases)
	pterm.Printfln("marks      = %v", app.Marks)
	pterm.Printfln("classifier = %s", app.Classifier)
	pterm.Printfln("builder    = %s", app.Builder)
	pterm.Printfln("lookup     = %d", app.Lookup)
	pterm.Printfln("out        = %q", app.Out)
}

func help(topic string) {
	for _, op := range operations {
		if topic == op.name {
			pterm.Printfln("%-8s %s", op.name, op.help)
			return
		}
	}
	pterm.Println("Operations:")
	for _, op := range operations {
		pterm.Printfln("  %-10s %s", op.name, op.help)
	}
	pterm.Println("Settings:")
	pterm.Println("  font <f,…>        fonts to use (keys, file names or paths)")
	pterm.Println("  pairs <pairs>     pairs, e.g. a+U+0301 (none to clear)")
	pterm.Println("  bases <groups>    base groups")
	pterm.Println("  marks <groups>    mark groups")
	pterm.Println("  classifier <c>    combo or sanity")
	pterm.Println("  builder <b>       grid or paragraph")
	pterm.Println("  lookup <n>        GPOS lookup index, -1 for all")
	pterm.Println("  out <file>        output file")
	pterm.Println("  trace <level>     Debug, Info or Error")
	pterm.Println("  show              show settings")
	pterm.Println("  quit")
}
