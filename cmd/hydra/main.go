// Command hydra inspects permutation shader files and generates shader
// source permutations.
//
// Usage:
//
//	hydra -shader <file.hydra> [-vars vars.json] [-list]
//	hydra -shader <file.hydra> -stage PIXEL -set USE_FOG=TRUE,LIGHTING_MODE=DEFERRED
//	hydra -shader <file.hydra> -i   (interactive explorer)
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/leaappelsmeier/hydra/expr"
	"github.com/leaappelsmeier/hydra/filecache"
	"github.com/leaappelsmeier/hydra/permute"
	"github.com/leaappelsmeier/hydra/ptext"
	"github.com/leaappelsmeier/hydra/shader"
)

var stageByName = map[string]shader.Stage{
	"VERTEX":   shader.StageVertex,
	"HULL":     shader.StageHull,
	"DOMAIN":   shader.StageDomain,
	"GEOMETRY": shader.StageGeometry,
	"PIXEL":    shader.StagePixel,
	"COMPUTE":  shader.StageCompute,
	"USER1":    shader.StageUser1,
	"USER2":    shader.StageUser2,
	"USER3":    shader.StageUser3,
	"USER4":    shader.StageUser4,
	"USER5":    shader.StageUser5,
	"USER6":    shader.StageUser6,
	"USER7":    shader.StageUser7,
	"USER8":    shader.StageUser8,
}

func main() {
	var (
		shaderFile  = flag.String("shader", "", "Path to the .hydra shader file")
		varsFile    = flag.String("vars", "", "Path to a JSON variable definition file")
		jsonc       = flag.Bool("jsonc", false, "Allow comments in the variable definition file")
		includes    = flag.String("include", "", "Include directories (comma-separated)")
		stageName   = flag.String("stage", "PIXEL", "Stage to generate (VERTEX, PIXEL, COMPUTE, USER1, ...)")
		assignments = flag.String("set", "", "Variable values (NAME=VALUE,NAME=VALUE)")
		list        = flag.Bool("list", false, "List shader information and exit")
		interactive = flag.Bool("i", false, "Interactive permutation explorer")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *shaderFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: hydra -shader <file.hydra> [-vars vars.json] [-set NAME=VALUE,...]")
		fmt.Fprintln(os.Stderr, "       hydra -shader <file.hydra> -list")
		fmt.Fprintln(os.Stderr, "       hydra -shader <file.hydra> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			permute.SetLogger(logger)
			expr.SetLogger(logger)
			ptext.SetLogger(logger)
			shader.SetLogger(logger)
		}
	}

	env, err := newEnvironment(*shaderFile, *varsFile, *jsonc, *includes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(env); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *list {
		env.printInfo()
		return
	}

	if err := env.generate(*stageName, *assignments); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// environment bundles the collaborators and the loaded shader.
type environment struct {
	lib    *shader.Library
	mgr    *permute.Manager
	shader *shader.Shader
	set    permute.Set
}

func newEnvironment(shaderFile, varsFile string, jsonc bool, includes string) (*environment, error) {
	cache := filecache.New(nil)

	locator := &filecache.Locator{}
	for _, dir := range strings.Split(includes, ",") {
		if dir != "" {
			locator.AddIncludeDirectory(dir)
		}
	}
	if abs, err := filepath.Abs(filepath.Dir(shaderFile)); err == nil {
		locator.AddIncludeDirectory(abs)
	}

	mgr := permute.NewManager(nil)

	if varsFile != "" {
		loader := shader.NewVariableLoader(cache, locator)
		loader.AllowComments = jsonc
		if err := loader.RegisterVariablesFromJSON(mgr, absolute(varsFile)); err != nil {
			return nil, err
		}
	}

	lib := shader.NewLibrary(cache, locator)

	sh, err := lib.LoadShader(absolute(shaderFile))
	if err != nil {
		return nil, err
	}

	set, err := lib.VariableSet(sh, mgr)
	if err != nil {
		return nil, err
	}

	return &environment{lib: lib, mgr: mgr, shader: sh, set: set}, nil
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func (env *environment) printInfo() {
	fmt.Printf("Shader: %s\n", env.shader.Path)

	if len(env.shader.Imports) > 0 {
		fmt.Println("\nImports:")
		for _, imp := range env.shader.Imports {
			fmt.Printf("  %s\n", imp)
		}
	}

	fmt.Println("\n[PERMUTATIONS]:")
	for _, name := range sortedKeys(env.shader.AllowedPermutations) {
		pinned := env.shader.AllowedPermutations[name]
		if pinned == shader.FreeValue {
			fmt.Printf("  %s = *\n", name)
		} else {
			fmt.Printf("  %s = %s (pinned)\n", name, pinned)
		}
	}

	used := make(map[string]struct{})
	env.lib.AllUsedVariables(env.shader, used)
	fmt.Println("\nUsed variables (including imports):")
	for _, name := range sortedSet(used) {
		fmt.Printf("  %s\n", name)
	}

	files := make(map[string]struct{})
	env.lib.AllReferencedFiles(env.shader, files)
	fmt.Println("\nReferenced files:")
	for _, file := range sortedSet(files) {
		fmt.Printf("  %s\n", file)
	}

	if vars := env.mgr.Variables(); len(vars) > 0 {
		fmt.Println("\nRegistered variables:")
		for _, v := range vars {
			fmt.Printf("  %-24s %-4s bits [%d, %d)\n", v.Name(), v.Type(),
				v.StartBitIndex(), v.StartBitIndex()+v.NumBits())
		}
	}
}

// generate finalizes the given assignments against the registered defaults
// and prints the generated stage source.
func (env *environment) generate(stageName, assignments string) error {
	stage, ok := stageByName[strings.ToUpper(stageName)]
	if !ok {
		return fmt.Errorf("unknown stage '%s'", stageName)
	}

	var state permute.State
	if assignments != "" {
		for _, pair := range strings.Split(assignments, ",") {
			name, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("malformed assignment '%s', want NAME=VALUE", pair)
			}

			variable := env.mgr.GetVariable(strings.TrimSpace(name))
			if variable == nil {
				return fmt.Errorf("unknown variable '%s'", name)
			}
			if err := state.SetLabel(variable, strings.TrimSpace(value)); err != nil {
				return err
			}
		}
	}

	var sel permute.Selection
	if err := env.mgr.FinalizeState(&state, &env.set, &sel); err != nil {
		return err
	}

	values, err := env.lib.ValueTable(env.shader, env.mgr, &sel)
	if err != nil {
		return err
	}

	code, err := env.lib.GenerateCode(env.shader, stage, values)
	if err != nil {
		return err
	}

	fmt.Printf("// permutation 0x%08X\n", sel.Hash())
	fmt.Print(code)
	return nil
}

func stageLabel(stage shader.Stage) string {
	for name, s := range stageByName {
		if s == stage {
			return name
		}
	}
	return fmt.Sprintf("STAGE_%d", stage)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
