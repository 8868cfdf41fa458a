package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/pelletier/go-toml"

	"github.com/neworderofjamie/mini-parse/pkg/diag"
	"github.com/neworderofjamie/mini-parse/pkg/minic"
)

const version = "0.1.0"

// testSource is analysed when no source file is given: a leaky
// integrate-and-fire neuron update in the host framework's macro syntax.
const testSource = `const double DT = 0.1;
double V = -60.0;
double RefracTime = 0.0;
double Isyn = 2.5;
if ($(RefracTime) <= 0.0) {
    double alpha = (($(Isyn) + 0.0) * 10.0) + -49.0;
    $(V) = alpha - (0.9 * (alpha - $(V)));
    print $(V);
}
else {
    $(RefracTime) -= DT;
}
`

// tomlRunFile is the on-disk shape of a run configuration.
type tomlRunFile struct {
	Run       tomlRun        `toml:"run"`
	Variables []tomlVariable `toml:"variables"`
}

type tomlRun struct {
	Source     string `toml:"source"`
	DumpTokens bool   `toml:"dump-tokens"`
	DumpAST    bool   `toml:"dump-ast"`
	Interpret  bool   `toml:"interpret"`
}

// tomlVariable is an externally provided scalar registered into both
// environments before the fragment is analysed.
type tomlVariable struct {
	Name  string  `toml:"name"`
	Type  string  `toml:"type"`
	Value float64 `toml:"value"`
	Const bool    `toml:"const"`
}

// loadConfig reads and validates a TOML run configuration.
func loadConfig(path string) (*tomlRunFile, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &tomlRunFile{Run: tomlRun{Interpret: true}}
	if err := toml.Unmarshal(buff, cfg); err != nil {
		return nil, err
	}
	for _, v := range cfg.Variables {
		if v.Name == "" {
			return nil, fmt.Errorf("variable with missing name in %s", path)
		}
		if minic.NumericFromSpecifiers(strings.Fields(v.Type)) == nil {
			return nil, fmt.Errorf("variable '%s' has unknown type '%s'", v.Name, v.Type)
		}
	}
	return cfg, nil
}

// mathCallable adapts a one-argument math function to the foreign-callable
// contract.
func mathCallable(fn func(float64) float64) minic.Callable {
	return minic.NewCallable(1, func(args []minic.LiteralValue) (minic.LiteralValue, error) {
		if args[0].IsNone() {
			return minic.NoneValue(), fmt.Errorf("Invalid operand")
		}
		return minic.DoubleValue(fn(args[0].F64)), nil
	})
}

// registerBuiltins installs the host math functions into both environments.
func registerBuiltins(typeEnv *minic.TypeEnvironment, valueEnv *minic.Environment) {
	double := minic.GetNumeric(minic.TypeDouble)
	signature := &minic.ForeignFunction{Return: double, Args: []*minic.Numeric{double}}

	for name, fn := range map[string]func(float64) float64{
		"sqrt": math.Sqrt,
		"exp":  math.Exp,
		"log":  math.Log,
	} {
		typeEnv.DefineName(name, signature, false)
		valueEnv.DefineCallable(name, mathCallable(fn))
	}
}

// registerVariables installs the configured scalars into both environments.
func registerVariables(variables []tomlVariable, typeEnv *minic.TypeEnvironment, valueEnv *minic.Environment) {
	for _, v := range variables {
		numeric := minic.NumericFromSpecifiers(strings.Fields(v.Type))
		typeEnv.DefineName(v.Name, numeric, v.Const)

		var value minic.LiteralValue
		switch numeric.ID {
		case minic.TypeFloat:
			value = minic.FloatValue(float32(v.Value))
		case minic.TypeDouble:
			value = minic.DoubleValue(v.Value)
		case minic.TypeBool:
			value = minic.BoolValue(v.Value != 0)
		case minic.TypeUint32:
			value = minic.Uint32Value(uint32(v.Value))
		default:
			value = minic.Int32Value(int32(v.Value))
		}
		valueEnv.DefineValue(v.Name, value)
	}
}

func main() {
	cfg := &tomlRunFile{Run: tomlRun{Interpret: true}}
	src := testSource
	sourceName := "<builtin test fragment>"

	if len(os.Args) > 1 {
		var err error
		if strings.HasSuffix(os.Args[1], ".toml") {
			cfg, err = loadConfig(os.Args[1])
			if err != nil {
				fmt.Fprintln(os.Stderr, "config error:", err)
				os.Exit(1)
			}
			sourceName = cfg.Run.Source
		} else {
			sourceName = os.Args[1]
		}
		if sourceName != "" {
			data, err := os.ReadFile(sourceName)
			if err != nil {
				fmt.Fprintln(os.Stderr, "read error:", err)
				os.Exit(1)
			}
			src = string(data)
		}
	}

	diag.PrintHeader(version, sourceName)

	// Preprocess
	src = minic.Preprocess(src)

	// Scan
	handler := diag.NewConsoleHandler("Scan")
	tokens := minic.Scan(src, handler)
	if cfg.Run.DumpTokens {
		fmt.Printf("Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Println(" ", tok)
		}
		fmt.Println()
	}
	if !handler.ShouldProceed() {
		diag.PrintFinished(false, handler.ErrorCount())
		os.Exit(1)
	}

	// Parse
	handler.SetStage("Parse")
	statements := minic.Parse(tokens, handler)
	if cfg.Run.DumpAST {
		fmt.Println("AST")
		fmt.Print(minic.PrintStatements(statements))
		fmt.Println()
	}
	if !handler.ShouldProceed() {
		diag.PrintFinished(false, handler.ErrorCount())
		os.Exit(1)
	}

	// Type check against the host bindings
	typeEnv := minic.NewTypeEnvironment(nil)
	valueEnv := minic.NewEnvironment(nil)
	registerBuiltins(typeEnv, valueEnv)
	registerVariables(cfg.Variables, typeEnv, valueEnv)

	handler.SetStage("Type")
	minic.TypeCheck(statements, typeEnv, handler)
	if !handler.ShouldProceed() {
		diag.PrintFinished(false, handler.ErrorCount())
		os.Exit(1)
	}

	// Interpret
	if cfg.Run.Interpret {
		if err := minic.Interpret(statements, valueEnv); err != nil {
			diag.PrintRuntimeError(err)
			diag.PrintFinished(false, 1)
			os.Exit(1)
		}
	}

	diag.PrintFinished(true, 0)
}
