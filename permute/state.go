package permute

import (
	"math/bits"
	"strings"

	"github.com/leaappelsmeier/hydra/errors"
)

// Set is the membership mask of the variables a particular shader exposes
// for permutation. It is built once per shader and stored alongside it.
//
// The zero value is an empty set; it adopts a manager from the first
// variable added to it.
type Set struct {
	manager *Manager
	mask    BitSet
}

// AddVariable includes a variable in the set. All variables of a set must
// come from the same manager.
func (s *Set) AddVariable(v *Variable) {
	s.adoptManager(v)
	s.mask.SetBitOnes(v.startBitIndex, v.numBits)
}

// Contains reports whether the variable's bit range is part of the set.
func (s *Set) Contains(v *Variable) bool {
	if s.manager != v.manager {
		return false
	}
	return s.mask.GetBlockOrEmpty(blockIndex(v.startBitIndex))&(uint64(1)<<bitInBlock(v.startBitIndex)) != 0
}

// Iterate visits every variable in the set in ascending bit order.
func (s *Set) Iterate(fn func(v *Variable)) {
	if s.manager != nil {
		forEachVariable(s.manager, &s.mask, fn)
	}
}

// Equal reports whether two sets belong to the same manager and contain
// the same variables.
func (s *Set) Equal(other *Set) bool {
	return s.manager == other.manager && s.mask.Equal(&other.mask)
}

// Clear empties the set and detaches it from its manager.
func (s *Set) Clear() {
	s.manager = nil
	s.mask.Clear()
}

// String lists the member variable names, one per line.
func (s *Set) String() string {
	var b strings.Builder
	s.Iterate(func(v *Variable) {
		b.WriteString(v.name)
		b.WriteByte('\n')
	})
	return b.String()
}

func (s *Set) adoptManager(v *Variable) {
	if s.manager != nil && s.manager != v.manager {
		panic("permute: variable belongs to a different manager")
	}
	s.manager = v.manager
}

// State is a partial variable assignment: for every explicitly set variable
// the values bits hold its encoding and the mask bits are ones. States are
// mutable scratch objects exclusively owned by their caller.
//
// The zero value is an empty state.
type State struct {
	manager    *Manager
	values     BitSet
	valuesMask BitSet
}

// SetBool assigns a Bool variable.
func (s *State) SetBool(v *Variable, value bool) error {
	if v.typ != TypeBool {
		return errors.InvalidValue(errors.PhaseEncode, v.name, value)
	}

	encoded := uint32(0)
	if value {
		encoded = 1
	}
	s.setEncoded(v, encoded)
	return nil
}

// SetInt assigns an Int or Enum variable to one of its allowed values.
func (s *State) SetInt(v *Variable, value int) error {
	if v.typ != TypeInt && v.typ != TypeEnum {
		return errors.InvalidValue(errors.PhaseEncode, v.name, value)
	}

	encoded, ok := v.encodeInt(value)
	if !ok {
		return errors.InvalidValue(errors.PhaseEncode, v.name, value)
	}

	s.setEncoded(v, encoded)
	return nil
}

// SetLabel assigns a variable by string label: "TRUE"/"FALSE" for Bool, a
// decimal spelling for Int, the declared label for Enum. Labels are
// case-sensitive.
func (s *State) SetLabel(v *Variable, label string) error {
	encoded, ok := v.encodeLabel(label)
	if !ok {
		return errors.InvalidValue(errors.PhaseEncode, v.name, label)
	}

	s.setEncoded(v, encoded)
	return nil
}

// Iterate visits every set variable in ascending bit order together with
// its raw integer value and label.
func (s *State) Iterate(fn func(v *Variable, value int, label string)) {
	if s.manager != nil {
		iterateValues(s.manager, &s.values, &s.valuesMask, fn)
	}
}

// Equal reports whether two states belong to the same manager and assign
// the same values to the same variables.
func (s *State) Equal(other *State) bool {
	return s.manager == other.manager &&
		s.values.Equal(&other.values) &&
		s.valuesMask.Equal(&other.valuesMask)
}

// Clear empties the state and detaches it from its manager.
func (s *State) Clear() {
	s.manager = nil
	s.values.Clear()
	s.valuesMask.Clear()
}

// String lists the assignments as NAME=LABEL lines.
func (s *State) String() string {
	var b strings.Builder
	s.Iterate(func(v *Variable, value int, label string) {
		b.WriteString(v.name)
		b.WriteByte('=')
		b.WriteString(label)
		b.WriteByte('\n')
	})
	return b.String()
}

func (s *State) setEncoded(v *Variable, encoded uint32) {
	if s.manager != nil && s.manager != v.manager {
		panic("permute: variable belongs to a different manager")
	}
	s.manager = v.manager

	s.values.SetBitValues(v.startBitIndex, v.numBits, uint64(encoded))
	s.valuesMask.SetBitOnes(v.startBitIndex, v.numBits)
}

// MergeStates combines two states restricted to the used set and writes
// the result into out. Where both states set a variable, b wins.
func MergeStates(a, b *State, used *Set, out *State) error {
	if !mergeInternal(a, b, used, &out.values, &out.valuesMask, nil) {
		return &errors.Error{Phase: errors.PhaseMerge, Kind: errors.KindMissingValue}
	}

	out.manager = used.manager
	return nil
}

// missingValuesFunc reports the used bits that neither input state covers.
type missingValuesFunc func(baseBitIndex uint32, missingBits uint64)

// mergeInternal performs the three-way masked combine over the used set's
// block window. With a non-nil missing callback, the merge fails on the
// first block whose result mask does not cover the used mask.
func mergeInternal(a, b *State, used *Set, outValues, outMask *BitSet, missing missingValuesFunc) bool {
	if !(a.manager == b.manager && a.manager == used.manager) && a.manager != nil && b.manager != nil {
		panic("permute: merging states from different managers")
	}

	block := used.mask.BlockStart()
	blockCount := used.mask.BlockCount()
	blockEnd := used.mask.BlockEnd()

	outValues.Clear()
	outValues.Reserve(block, blockCount)

	outMask.Clear()
	outMask.Reserve(block, blockCount)

	maskBlocks := used.mask.blocks()
	valueBlocks := outValues.blocks()
	resultMaskBlocks := outMask.blocks()

	for i := uint32(0); block < blockEnd; block, i = block+1, i+1 {
		valuesA := a.values.GetBlockOrEmpty(block)
		valuesB := b.values.GetBlockOrEmpty(block)

		maskA := a.valuesMask.GetBlockOrEmpty(block)
		maskB := b.valuesMask.GetBlockOrEmpty(block)

		m := maskBlocks[i]
		valueBlocks[i] = (valuesB | (valuesA &^ maskB)) & m
		resultMaskBlocks[i] = (maskA | maskB) & m

		if missing != nil && resultMaskBlocks[i] != m {
			missing(block*BitsPerBlock, ^resultMaskBlocks[i]&m)
			return false
		}
	}

	return true
}

// Selection is a complete, used-set-restricted assignment produced by
// Manager.FinalizeState, identifying one shader variant. Its hash is a
// stable in-process cache key for a fixed manager layout.
type Selection struct {
	manager    *Manager
	values     BitSet
	valuesMask BitSet
	hash       uint32
}

// Hash returns the fingerprint of the selection's packed values.
func (s *Selection) Hash() uint32 { return s.hash }

// Iterate visits every selected variable in ascending bit order together
// with its raw integer value and label.
func (s *Selection) Iterate(fn func(v *Variable, value int, label string)) {
	if s.manager != nil {
		iterateValues(s.manager, &s.values, &s.valuesMask, fn)
	}
}

// Equal reports whether two selections belong to the same manager and
// assign the same values to the same variables.
func (s *Selection) Equal(other *Selection) bool {
	return s.manager == other.manager &&
		s.values.Equal(&other.values) &&
		s.valuesMask.Equal(&other.valuesMask)
}

// Clear resets the selection to empty.
func (s *Selection) Clear() {
	s.manager = nil
	s.values.Clear()
	s.valuesMask.Clear()
	s.hash = 0
}

// String lists the assignments as NAME=LABEL lines.
func (s *Selection) String() string {
	var b strings.Builder
	s.Iterate(func(v *Variable, value int, label string) {
		b.WriteString(v.name)
		b.WriteByte('=')
		b.WriteString(label)
		b.WriteByte('\n')
	})
	return b.String()
}

// forEachVariable walks a mask block by block. Within a block the lowest
// set bit identifies the next variable by its start bit; the variable's
// full mask is cleared before continuing, so every variable is visited
// exactly once.
func forEachVariable(m *Manager, mask *BitSet, fn func(v *Variable)) {
	baseBitIndex := mask.BlockStart() * BitsPerBlock

	blocks := mask.blocks()
	for blockIdx := uint32(0); blockIdx < mask.BlockCount(); blockIdx++ {
		block := blocks[blockIdx]
		for block > 0 {
			i := uint32(bits.TrailingZeros64(block))

			variable := m.VariableAt(baseBitIndex + i)
			fn(variable)

			block &^= ((uint64(1) << variable.numBits) - 1) << i
		}

		baseBitIndex += BitsPerBlock
	}
}

func iterateValues(m *Manager, values, valuesMask *BitSet, fn func(v *Variable, value int, label string)) {
	forEachVariable(m, valuesMask, func(v *Variable) {
		encoded := uint32(values.GetBitValues(v.startBitIndex, v.numBits))
		fn(v, v.ValueInt(encoded), v.ValueString(encoded))
	})
}
