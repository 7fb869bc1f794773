package shader

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/leaappelsmeier/hydra"
	"github.com/leaappelsmeier/hydra/errors"
	"github.com/leaappelsmeier/hydra/expr"
)

// Library loads permutation shaders and their dependencies and generates
// their permutations. Loaded shaders are cached by normalized path.
//
// A Library is safe for concurrent use.
type Library struct {
	mu           sync.Mutex
	cache        hydra.FileCache
	locator      hydra.FileLocator
	sectionNames [NumStages]string
	shaders      map[string]*Shader
}

// NewLibrary creates a shader library over the given file cache and
// locator. Both are mandatory.
func NewLibrary(cache hydra.FileCache, locator hydra.FileLocator) *Library {
	return &Library{
		cache:        cache,
		locator:      locator,
		sectionNames: defaultSectionNames,
		shaders:      make(map[string]*Shader),
	}
}

// SetSectionName reconfigures the header of a stage section, typically one
// of the [USER_n] slots. Must be called before loading shaders.
func (l *Library) SetSectionName(stage Stage, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sectionNames[stage] = name
}

// LoadedShader returns a previously loaded shader, or ok=false if no
// shader with the given path has been loaded yet.
func (l *Library) LoadedShader(path string) (*Shader, bool) {
	if l.cache == nil || l.locator == nil {
		Logger().Error("shader library: file cache and file locator are not set up")
		return nil, false
	}

	finalPath, found := l.locator.FindFile(l.cache, "", l.cache.NormalizePath(path))
	if !found {
		return nil, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	shader, ok := l.shaders[finalPath]
	return shader, ok
}

// LoadShader loads a shader file, including its imports, and returns the
// cached shader if it was loaded before.
func (l *Library) LoadShader(path string) (*Shader, error) {
	if l.cache == nil || l.locator == nil {
		err := errors.NotReady(errors.PhaseLoad, "shader library: file cache and file locator are not set up")
		Logger().Error("load failed", zap.Error(err))
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.loadShader(path)
}

// loadShader is the recursive load path; the library lock is held.
func (l *Library) loadShader(path string) (*Shader, error) {
	finalPath, found := l.locator.FindFile(l.cache, "", l.cache.NormalizePath(path))
	if !found {
		Logger().Info("shader file does not exist", zap.String("path", path))
		return nil, errors.FileNotFound(errors.PhaseLoad, path)
	}

	if shader, ok := l.shaders[finalPath]; ok {
		return shader, nil
	}

	Logger().Info("loading permutation shader", zap.String("path", finalPath))

	shader := &Shader{
		Path:                finalPath,
		ReferencedFiles:     make(map[string]struct{}),
		AllowedPermutations: make(map[string]string),
	}
	l.shaders[finalPath] = shader

	content, err := l.cache.Content(finalPath)
	if err != nil {
		delete(l.shaders, finalPath)
		return nil, errors.Load(finalPath, err)
	}

	if err := l.parseShaderFile(shader, content); err != nil {
		Logger().Error("loading permutation shader failed",
			zap.String("path", finalPath), zap.Error(err))

		delete(l.shaders, finalPath)
		return nil, err
	}

	if err := l.validateShader(shader); err != nil {
		Logger().Error("validating permutation shader failed",
			zap.String("path", finalPath), zap.Error(err))

		delete(l.shaders, finalPath)
		return nil, err
	}

	Logger().Info("successfully loaded permutation shader", zap.String("path", finalPath))
	return shader, nil
}

// parseShaderFile splits the file into sections and fills the shader.
func (l *Library) parseShaderFile(shader *Shader, content string) error {
	var sectionizer Sectionizer
	sectionizer.AddSection("") // imports before the first header
	sectionizer.AddSection("[PERMUTATIONS]")
	sectionizer.AddSection("[ALL_SHADERS]")
	for stage := Stage(0); stage < NumStages; stage++ {
		sectionizer.AddSection(l.sectionNames[stage])
	}
	sectionizer.Process(content)

	// resolve and load the shaders imported at the top of the file
	imports, _ := sectionizer.SectionContent(0)
	if err := l.parseImports(shader, imports); err != nil {
		return err
	}
	for _, file := range shader.Imports {
		if _, err := l.loadShader(file); err != nil {
			return errors.Wrap(errors.PhaseLoad, errors.KindIO, err, "failed to import '"+file+"'")
		}
	}

	// the variables (and pinned values) declared in [PERMUTATIONS]
	permutations, _ := sectionizer.SectionContent(1)
	if err := parsePermutationsSection(shader.AllowedPermutations, permutations); err != nil {
		return err
	}

	// read all stage sections, replace #include statements, and collect
	// the permutation variables each section references
	common, _ := sectionizer.SectionContent(2)
	alreadyIncluded := make(map[string]struct{})

	for stage := Stage(0); stage < NumStages; stage++ {
		text, _ := sectionizer.SectionContent(3 + int(stage))

		// the known shader stages get the common source prepended; the
		// user sections stay as they are
		if stage < StageUser1 {
			text = common + text
		}

		clear(alreadyIncluded)
		text = replaceIncludes(shader.Path, text, alreadyIncluded, l.locator, l.cache)
		shader.Sections[stage].SetText(text)

		for file := range alreadyIncluded {
			shader.ReferencedFiles[file] = struct{}{}
		}

		vars, err := shader.Sections[stage].DetermineUsedVariables()
		if err != nil {
			return errors.Syntax(shader.Path, "section '%s' has an erroneous permutation condition: %v",
				l.sectionNames[stage], err)
		}
		shader.UsedVariables = append(shader.UsedVariables, vars...)
	}

	return nil
}

// parseImports reads the import statements before the first section
// header. Blank lines and line comments are allowed.
func (l *Library) parseImports(shader *Shader, imports string) error {
	for imports != "" {
		var line string
		line, imports = nextLine(imports)
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "//") {
			continue
		}

		if ref, ok := acceptPrefix(line, "import"); ok {
			ref = skipSpace(ref)

			file, found := l.locator.FindFile(l.cache, shader.Path, ref)
			if !found {
				return errors.FileNotFound(errors.PhaseLoad, ref)
			}
			shader.Imports = append(shader.Imports, file)
			continue
		}

		return errors.Syntax(shader.Path, "shader file starts with invalid statements: '%s'", line)
	}

	return nil
}

// parsePermutationsSection parses the NAME / NAME = * / NAME = LITERAL
// lines of a [PERMUTATIONS] section into the allowed map.
func parsePermutationsSection(allowed map[string]string, permutations string) error {
	type parseState int
	const (
		stateIdle parseState = iota
		stateHasName
		stateHasEqual
		stateHasValue
	)

	state := stateIdle
	variableName := ""

	for _, token := range expr.Tokenize(permutations) {
		switch token.Type {
		case expr.TokenLineComment, expr.TokenBlockComment:
			continue

		case expr.TokenNewLine:
			if state == stateHasEqual {
				return errors.Syntax("", "[PERMUTATIONS]: missing assignment value: '%s = ?'", variableName)
			}
			if state == stateHasName {
				allowed[variableName] = FreeValue
			}
			state = stateIdle
			continue

		case expr.TokenNonIdentifier:
			if token.Value == "=" && state == stateHasName {
				state = stateHasEqual
				continue
			}
			if token.Value == "*" && state == stateHasEqual {
				// "A = *" is the same as giving it no value
				allowed[variableName] = FreeValue
				state = stateHasValue
				continue
			}

		case expr.TokenIdentifier:
			if state == stateIdle {
				variableName = token.Value
				state = stateHasName
				continue
			}
			if state == stateHasEqual {
				allowed[variableName] = token.Value
				state = stateHasValue
				continue
			}

		case expr.TokenInteger:
			if state == stateHasEqual {
				allowed[variableName] = token.Value
				state = stateHasValue
				continue
			}
		}

		return errors.Syntax("", "[PERMUTATIONS]: malformed structure at token '%s'", token.Value)
	}

	switch state {
	case stateIdle, stateHasValue:
		return nil
	case stateHasName:
		// a final declaration without trailing newline
		allowed[variableName] = FreeValue
		return nil
	}

	return errors.Syntax("", "[PERMUTATIONS]: malformed structure at the end")
}

// validateShader checks that every variable used in a condition is also
// declared in the [PERMUTATIONS] section, directly or through an import.
func (l *Library) validateShader(shader *Shader) error {
	used := make(map[string]struct{})
	l.allUsedVariables(shader, used)

	var firstErr error
	for name := range used {
		if strings.Contains(name, "::") {
			// enum constants resolve against the variable's allowed
			// values, not against the declarations
			continue
		}

		if _, declared := shader.AllowedPermutations[name]; !declared {
			err := errors.Syntax(shader.Path,
				"shader uses permutation variable '%s' that isn't declared in its [PERMUTATIONS] section", name)
			Logger().Error("validation failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
