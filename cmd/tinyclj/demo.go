package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiny-clj/tinyclj"
)

// demoCmd exercises the value runtime end to end without a reader:
// the reader/parser that would turn source text into these values is
// out of scope for the runtime, so this command builds a handful of
// expressions directly from the core's own constructors (exactly as a
// real reader would) and evaluates them through Runtime.EvalExpr.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a handful of built-in expressions against the value runtime",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rt := tinyclj.RuntimeInit(cfg)

		pool := rt.Mem.PoolPush()
		defer rt.Mem.PoolPop(pool)

		for _, expr := range buildDemoExprs(rt) {
			result, err := rt.EvalExpr(expr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %s\n", err)
				continue
			}
			fmt.Println(tinyclj.PrStr(result))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func loadConfig() (*tinyclj.Config, error) {
	if configPath == "" {
		return tinyclj.NewConfig(), nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return tinyclj.LoadConfigYAML(data)
}

// buildDemoExprs constructs `(+ 1 2 3)` and `(str "hi " 42)` directly,
// standing in for what a reader would hand EvalExpr.
func buildDemoExprs(rt *tinyclj.Runtime) []tinyclj.Value {
	mm := rt.Mem

	addExpr := tinyclj.HeapValue(tinyclj.Cons(mm, tinyclj.HeapValue(internSym(rt, "+")),
		tinyclj.HeapValue(tinyclj.Cons(mm, tinyclj.Fixnum(1),
			tinyclj.HeapValue(tinyclj.Cons(mm, tinyclj.Fixnum(2),
				tinyclj.HeapValue(tinyclj.Cons(mm, tinyclj.Fixnum(3), tinyclj.Nil))))))))

	strExpr := tinyclj.HeapValue(tinyclj.Cons(mm, tinyclj.HeapValue(internSym(rt, "str")),
		tinyclj.HeapValue(tinyclj.Cons(mm, tinyclj.HeapValue(tinyclj.NewString("hi ")),
			tinyclj.HeapValue(tinyclj.Cons(mm, tinyclj.Fixnum(42), tinyclj.Nil))))))

	return []tinyclj.Value{addExpr, strExpr}
}

func internSym(rt *tinyclj.Runtime, name string) *tinyclj.SymbolObj {
	return rt.Registry.InternCore(name)
}
