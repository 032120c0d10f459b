package bytecode

// Program is an ordered sequence of instructions, addressable by its
// zero-based index. Jump targets are absolute indices into this
// sequence. NumSlots is the dense count of distinct variable names
// assigned slots by the generator; the VM sizes its variable array from
// it rather than a fixed magic constant.
type Program struct {
	Instructions []Instruction
	NumSlots     int
}
