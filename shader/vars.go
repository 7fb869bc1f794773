package shader

import (
	"encoding/json"
	"sort"

	"github.com/tailscale/hujson"
	"go.uber.org/zap"

	"github.com/leaappelsmeier/hydra"
	"github.com/leaappelsmeier/hydra/errors"
	"github.com/leaappelsmeier/hydra/permute"
)

// VariableLoader registers permutation variables from JSON definition
// files with a permute.Manager.
//
// A definition file is an object mapping variable names to definitions:
//
//	{
//	  "USE_FOG":       {"Type": "bool", "Default": true},
//	  "MSAA_SAMPLES":  {"Type": "int", "Values": [1, 2, 4, 8], "Default": 4},
//	  "LIGHTING_MODE": {"Type": "enum",
//	                    "Values": [{"FORWARD": 0}, {"DEFERRED": 1}],
//	                    "Default": "FORWARD"}
//	}
type VariableLoader struct {
	cache   hydra.FileCache
	locator hydra.FileLocator

	// AllowComments accepts // and /* */ comments in definition files.
	AllowComments bool
}

// NewVariableLoader creates a loader over the given file cache and
// locator. Both are mandatory.
func NewVariableLoader(cache hydra.FileCache, locator hydra.FileLocator) *VariableLoader {
	return &VariableLoader{cache: cache, locator: locator}
}

// variableDefinition mirrors one JSON definition entry.
type variableDefinition struct {
	Type    string            `json:"Type"`
	Values  []json.RawMessage `json:"Values"`
	Default json.RawMessage   `json:"Default"`
}

// RegisterVariablesFromJSON loads the definition file at path and
// registers every variable with the manager. Definitions are registered in
// name order, so the packed bit layout is reproducible. Broken definitions
// are logged and skipped; the first failure is returned after all entries
// were attempted.
func (vl *VariableLoader) RegisterVariablesFromJSON(mgr *permute.Manager, path string) error {
	if vl.cache == nil || vl.locator == nil {
		err := errors.NotReady(errors.PhaseLoad, "variable loader: file cache and file locator are not set up")
		Logger().Error("load failed", zap.Error(err))
		return err
	}

	finalPath, found := vl.locator.FindFile(vl.cache, "", vl.cache.NormalizePath(path))
	if !found {
		err := errors.FileNotFound(errors.PhaseLoad, path)
		Logger().Error("variable definition file could not be found", zap.Error(err))
		return err
	}

	content, err := vl.cache.Content(finalPath)
	if err != nil {
		return errors.Load(finalPath, err)
	}

	raw := []byte(content)
	if vl.AllowComments {
		standardized, err := hujson.Standardize(raw)
		if err != nil {
			return errors.Wrap(errors.PhaseParse, errors.KindSyntax, err, "parsing json file '"+finalPath+"'")
		}
		raw = standardized
	}

	var definitions map[string]variableDefinition
	if err := json.Unmarshal(raw, &definitions); err != nil {
		return errors.Wrap(errors.PhaseParse, errors.KindSyntax, err, "parsing json file '"+finalPath+"'")
	}

	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	var firstErr error
	for _, name := range names {
		// broken entries don't stop the remaining registrations
		if err := registerDefinition(mgr, name, definitions[name]); err != nil {
			Logger().Error("registering permutation variable failed",
				zap.String("variable", name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		Logger().Error("failed to register permutation variables", zap.String("path", finalPath))
		return firstErr
	}

	Logger().Info("successfully registered permutation variables", zap.String("path", finalPath))
	return nil
}

func registerDefinition(mgr *permute.Manager, name string, def variableDefinition) error {
	switch def.Type {
	case "bool":
		return registerBoolDefinition(mgr, name, def)
	case "int":
		return registerIntDefinition(mgr, name, def)
	case "enum":
		return registerEnumDefinition(mgr, name, def)
	case "":
		return errors.Syntax("", "unable to find type information for variable '%s'", name)
	}
	return errors.Syntax("", "invalid type '%s' for variable '%s'", def.Type, name)
}

func registerBoolDefinition(mgr *permute.Manager, name string, def variableDefinition) error {
	var defaultValue *bool
	if def.Default != nil {
		var value bool
		if err := json.Unmarshal(def.Default, &value); err != nil {
			return errors.Syntax("", "invalid default value for bool variable '%s'", name)
		}
		defaultValue = &value
	}

	_, err := mgr.RegisterBool(name, defaultValue)
	return err
}

func registerIntDefinition(mgr *permute.Manager, name string, def variableDefinition) error {
	allowed := make([]int, 0, len(def.Values))
	for _, item := range def.Values {
		var value int
		if err := json.Unmarshal(item, &value); err != nil {
			return errors.Syntax("", "invalid item in values array for int variable '%s'", name)
		}
		allowed = append(allowed, value)
	}

	var defaultValue *int
	if def.Default != nil {
		var value int
		if err := json.Unmarshal(def.Default, &value); err != nil {
			return errors.Syntax("", "invalid default value for int variable '%s'", name)
		}
		defaultValue = &value
	}

	_, err := mgr.RegisterInt(name, allowed, defaultValue)
	return err
}

func registerEnumDefinition(mgr *permute.Manager, name string, def variableDefinition) error {
	allowed := make([]permute.EnumValue, 0, len(def.Values))
	for _, item := range def.Values {
		// each entry is an object holding exactly one label/value pair
		var pair map[string]int
		if err := json.Unmarshal(item, &pair); err != nil || len(pair) != 1 {
			return errors.Syntax("", "invalid entry in values array for enum variable '%s'", name)
		}
		for label, value := range pair {
			allowed = append(allowed, permute.EnumValue{Label: label, Value: value})
		}
	}

	var defaultValue *int
	if def.Default != nil {
		var label string
		if err := json.Unmarshal(def.Default, &label); err != nil {
			return errors.Syntax("", "invalid default value for enum variable '%s' - expected a label string", name)
		}

		found := false
		for _, entry := range allowed {
			if entry.Label == label {
				value := entry.Value
				defaultValue = &value
				found = true
				break
			}
		}
		if !found {
			return errors.Syntax("", "unable to find entry for '%s' in values array for enum variable '%s'", label, name)
		}
	}

	_, err := mgr.RegisterEnum(name, allowed, defaultValue)
	return err
}
