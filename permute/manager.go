package permute

import (
	"math/bits"
	"sort"

	"go.uber.org/zap"

	"github.com/leaappelsmeier/hydra/errors"
)

// Options configures a Manager's capabilities.
type Options struct {
	// Hash computes Selection fingerprints. Defaults to DefaultHasher.
	Hash Hasher
}

// Manager owns the permutation variable registry and the packed bit layout.
//
// A Manager is populated during initialization and then read-only:
// registration must be serialized by the caller, while GetVariable,
// VariableAt and FinalizeState are safe for concurrent readers once
// registration has completed.
type Manager struct {
	variables []*Variable
	byName    map[string]*Variable
	byBit     []*Variable // direct lookup by start bit index

	blockAllocations []blockAllocation
	nextBlockIndex   uint32

	defaultState State

	hash Hasher
}

// blockAllocation tracks a partially used block. The list is kept sorted by
// remaining bits, then block index, so the tightest fit wins and variables
// stay densely packed.
type blockAllocation struct {
	remainingBits uint32
	blockIndex    uint32
}

// NewManager creates an empty variable registry. A nil opts selects the
// default hasher.
func NewManager(opts *Options) *Manager {
	m := &Manager{
		byName: make(map[string]*Variable),
		hash:   DefaultHasher,
	}
	if opts != nil && opts.Hash != nil {
		m.hash = opts.Hash
	}

	m.defaultState.manager = m
	return m
}

// DefaultBool wraps a bool default value for RegisterBool.
func DefaultBool(v bool) *bool { return &v }

// DefaultInt wraps an int default value for RegisterInt and RegisterEnum.
func DefaultInt(v int) *int { return &v }

// RegisterBool registers a boolean variable occupying a single bit.
func (m *Manager) RegisterBool(name string, defaultValue *bool) (*Variable, error) {
	var intDefault *int
	if defaultValue != nil {
		d := 0
		if *defaultValue {
			d = 1
		}
		intDefault = &d
	}
	return m.register(name, nil, intDefault, TypeBool)
}

// RegisterInt registers an integer variable restricted to the given allowed
// values. The packed encoding is the index into the allowed list.
func (m *Manager) RegisterInt(name string, allowed []int, defaultValue *int) (*Variable, error) {
	return m.register(name, intLabels(allowed), defaultValue, TypeInt)
}

// RegisterEnum registers an enum variable with user-supplied labels. The
// default, if any, is given as one of the allowed integer values.
func (m *Manager) RegisterEnum(name string, allowed []EnumValue, defaultValue *int) (*Variable, error) {
	return m.register(name, allowed, defaultValue, TypeEnum)
}

// GetVariable returns the variable with the given name, or nil.
func (m *Manager) GetVariable(name string) *Variable {
	return m.byName[name]
}

// VariableAt returns the variable whose packed range starts at the given
// bit index, or nil.
func (m *Manager) VariableAt(bitIndex uint32) *Variable {
	if bitIndex < uint32(len(m.byBit)) {
		return m.byBit[bitIndex]
	}
	return nil
}

// Variables returns all registered variables in registration order.
func (m *Manager) Variables() []*Variable {
	return m.variables
}

func (m *Manager) register(name string, allowed []EnumValue, defaultValue *int, typ Type) (*Variable, error) {
	if typ != TypeBool && len(allowed) == 0 {
		err := errors.Conflict(name, "a set of allowed values must be specified for %s variables", typ)
		Logger().Error("registration failed", zap.Error(err))
		return nil, err
	}

	if existing := m.GetVariable(name); existing != nil {
		if existing.typ != typ {
			err := errors.Conflict(name, "of type '%s' already exists as '%s'", typ, existing.typ)
			Logger().Error("registration failed", zap.Error(err))
			return nil, err
		}

		if !equalAllowedValues(existing.allowed, allowed) {
			err := errors.Conflict(name, "already exists with different allowed values")
			Logger().Error("registration failed", zap.Error(err))
			return nil, err
		}

		if (defaultValue != nil) != existing.hasDefault {
			err := errors.Conflict(name, "already exists with a different default value")
			Logger().Error("registration failed", zap.Error(err))
			return nil, err
		}

		if defaultValue != nil && existing.defaultVal != *defaultValue {
			err := errors.Conflict(name, "already exists with different default value %d, given default value is %d",
				existing.defaultVal, *defaultValue)
			Logger().Error("registration failed", zap.Error(err))
			return nil, err
		}

		return existing, nil
	}

	numBits := uint32(1)
	if typ != TypeBool {
		numBits = max(ceilLog2(uint32(len(allowed))), 1)
	}

	variable := &Variable{
		name:          name,
		startBitIndex: m.freeBitIndex(numBits),
		numBits:       numBits,
		typ:           typ,
		allowed:       allowed,
		manager:       m,
	}

	if defaultValue != nil {
		variable.hasDefault = true
		variable.defaultVal = *defaultValue

		encoded, ok := variable.encodeInt(*defaultValue)
		if !ok {
			err := errors.Conflict(name, "%d is not a valid default value", *defaultValue)
			Logger().Error("registration failed", zap.Error(err))
			return nil, err
		}

		m.defaultState.setEncoded(variable, encoded)
	}

	m.variables = append(m.variables, variable)
	m.byName[name] = variable

	if uint32(len(m.byBit)) <= variable.startBitIndex {
		grown := make([]*Variable, variable.startBitIndex+1)
		copy(grown, m.byBit)
		m.byBit = grown
	}
	m.byBit[variable.startBitIndex] = variable

	return variable, nil
}

// freeBitIndex allocates a bit range that fits entirely within one block.
// Partially used blocks are scanned tightest-fit-first; if none fits, a new
// block is opened.
func (m *Manager) freeBitIndex(numBitsNeeded uint32) uint32 {
	bitIndex := ^uint32(0)

	for i := range m.blockAllocations {
		alloc := &m.blockAllocations[i]

		if alloc.remainingBits >= numBitsNeeded {
			bitIndex = (alloc.blockIndex+1)*BitsPerBlock - alloc.remainingBits
			alloc.remainingBits -= numBitsNeeded

			if alloc.remainingBits == 0 {
				m.blockAllocations = append(m.blockAllocations[:i], m.blockAllocations[i+1:]...)
			}
			break
		}
	}

	if bitIndex == ^uint32(0) {
		bitIndex = m.nextBlockIndex * BitsPerBlock

		m.blockAllocations = append(m.blockAllocations, blockAllocation{
			remainingBits: BitsPerBlock - numBitsNeeded,
			blockIndex:    m.nextBlockIndex,
		})
		m.nextBlockIndex++
	}

	sort.Slice(m.blockAllocations, func(i, j int) bool {
		a, b := m.blockAllocations[i], m.blockAllocations[j]
		if a.remainingBits != b.remainingBits {
			return a.remainingBits < b.remainingBits
		}
		return a.blockIndex < b.blockIndex
	})

	return bitIndex
}

// FinalizeState merges the registered defaults with the given state,
// restricted to the used set, and writes the result into out. Every used
// variable must have a value in the state or a default in the manager;
// otherwise the missing variables of the first block lacking values are
// each logged once, the returned error names the first of them, and out is
// left empty.
func (m *Manager) FinalizeState(state *State, used *Set, out *Selection) error {
	out.Clear()

	var missing []string
	report := func(baseBitIndex uint32, missingBits uint64) {
		for missingBits > 0 {
			i := uint32(bits.TrailingZeros64(missingBits))

			variable := m.VariableAt(baseBitIndex + i)
			missing = append(missing, variable.name)
			Logger().Error("permutation variable is not set in state and has no default value",
				zap.String("variable", variable.name))

			missingBits &^= ((uint64(1) << variable.numBits) - 1) << i
		}
	}

	if !mergeInternal(&m.defaultState, state, used, &out.values, &out.valuesMask, report) {
		out.Clear()
		return errors.MissingValue(missing[0])
	}

	out.manager = m
	out.hash = out.values.Sum32(m.hash)
	return nil
}

// equalAllowedValues compares two allowed-value lists in order.
func equalAllowedValues(a, b []EnumValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ceilLog2 returns ceil(log2(x)) for x >= 1.
func ceilLog2(x uint32) uint32 {
	if x <= 1 {
		return 0
	}
	return uint32(bits.Len32(x - 1))
}
