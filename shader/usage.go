package shader

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/leaappelsmeier/hydra/errors"
	"github.com/leaappelsmeier/hydra/expr"
	"github.com/leaappelsmeier/hydra/permute"
)

// AllUsedVariables fills out with every permutation variable that appears
// in the shader's conditions, including those of imported shaders.
//
// This set should be contained in the [PERMUTATIONS] declarations;
// validation at load time relies on it.
func (l *Library) AllUsedVariables(shader *Shader, out map[string]struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.allUsedVariables(shader, out)
}

func (l *Library) allUsedVariables(shader *Shader, out map[string]struct{}) {
	for _, path := range shader.Imports {
		if sub, ok := l.shaders[path]; ok {
			l.allUsedVariables(sub, out)
		}
	}

	for _, name := range shader.UsedVariables {
		out[name] = struct{}{}
	}
}

// AllReferencedFiles fills out with every file that contributes to the
// shader: its own path, all #include'd files, and all imports with their
// dependencies. Useful to detect whether any dependency changed.
func (l *Library) AllReferencedFiles(shader *Shader, out map[string]struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.allReferencedFiles(shader, out)
}

func (l *Library) allReferencedFiles(shader *Shader, out map[string]struct{}) {
	out[shader.Path] = struct{}{}

	for file := range shader.ReferencedFiles {
		out[file] = struct{}{}
	}

	for _, path := range shader.Imports {
		if sub, ok := l.shaders[path]; ok {
			l.allReferencedFiles(sub, out)
		}
	}
}

// GenerateCode produces the permuted source of one stage under the given
// variable values, prepending the generated code of all imports.
func (l *Library) GenerateCode(shader *Shader, stage Stage, values expr.ValueTable) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.generateCode(shader, stage, values)
}

func (l *Library) generateCode(shader *Shader, stage Stage, values expr.ValueTable) (string, error) {
	result := ""

	for _, path := range shader.Imports {
		sub, ok := l.shaders[path]
		if !ok {
			return "", errors.FileNotFound(errors.PhaseLoad, path)
		}

		code, err := l.generateCode(sub, stage, values)
		if err != nil {
			Logger().Error("failed to generate text permutation for import",
				zap.String("path", sub.Path), zap.Error(err))
			return "", err
		}
		result += code
	}

	code, err := shader.Sections[stage].Generate(values)
	if err != nil {
		Logger().Error("failed to generate text permutation",
			zap.String("path", shader.Path), zap.Error(err))
		return "", err
	}

	return result + code, nil
}

// VariableSet builds the permute.Set of the variables the shader exposes
// for permutation: every [PERMUTATIONS] declaration without a pinned
// value. This should be done once per shader and the result stored.
func (l *Library) VariableSet(shader *Shader, mgr *permute.Manager) (permute.Set, error) {
	var set permute.Set

	for name, pinned := range shader.AllowedPermutations {
		if pinned != FreeValue {
			// pinned variables never participate in selection
			continue
		}

		variable := mgr.GetVariable(name)
		if variable == nil {
			err := errors.VariableNotFound(errors.PhaseFinalize, name)
			Logger().Error("building the shader's variable set failed",
				zap.String("shader", shader.Path), zap.Error(err))
			return permute.Set{}, err
		}

		set.AddVariable(variable)
	}

	return set, nil
}

// ValueTable fills out the evaluator values needed to generate the shader
// permutation identified by a selection: the selection's variable values,
// the NAME::LABEL constants of every declared enum variable, and the
// pinned values of the [PERMUTATIONS] section.
func (l *Library) ValueTable(shader *Shader, mgr *permute.Manager, selection *permute.Selection) (expr.ValueTable, error) {
	values := make(expr.ValueTable)

	selection.Iterate(func(v *permute.Variable, value int, label string) {
		values[v.Name()] = value
	})

	if err := addEnumConstants(values, shader, mgr); err != nil {
		return nil, err
	}
	if err := addPinnedValues(values, shader, mgr); err != nil {
		return nil, err
	}

	return values, nil
}

// addEnumConstants defines NAME::LABEL for all values of every declared
// enum variable, so conditions can compare against them.
func addEnumConstants(values expr.ValueTable, shader *Shader, mgr *permute.Manager) error {
	for name := range shader.AllowedPermutations {
		variable := mgr.GetVariable(name)
		if variable == nil {
			err := errors.VariableNotFound(errors.PhaseFinalize, name)
			Logger().Error("setting up enum constants failed", zap.Error(err))
			return err
		}

		if variable.Type() != permute.TypeEnum {
			continue
		}

		for _, allowed := range variable.AllowedValues() {
			values[variable.Name()+"::"+allowed.Label] = allowed.Value
		}
	}

	return nil
}

// addPinnedValues resolves the fixed assignments of the [PERMUTATIONS]
// section into evaluator values.
func addPinnedValues(values expr.ValueTable, shader *Shader, mgr *permute.Manager) error {
	for name, pinned := range shader.AllowedPermutations {
		if pinned == FreeValue {
			continue
		}

		variable := mgr.GetVariable(name)
		if variable == nil {
			err := errors.VariableNotFound(errors.PhaseFinalize, name)
			Logger().Error("setting up pinned values failed", zap.Error(err))
			return err
		}

		switch variable.Type() {
		case permute.TypeBool:
			if pinned == "true" || pinned == "TRUE" {
				values[name] = 1
			} else {
				values[name] = 0
			}

		case permute.TypeInt:
			value, err := strconv.Atoi(pinned)
			if err != nil {
				return errors.InvalidValue(errors.PhaseParse, name, pinned)
			}
			values[name] = value

		case permute.TypeEnum:
			for _, allowed := range variable.AllowedValues() {
				if allowed.Label == pinned {
					values[name] = allowed.Value
					break
				}
			}
		}
	}

	return nil
}
