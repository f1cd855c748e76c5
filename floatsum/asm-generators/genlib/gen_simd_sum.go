package genlib

import (
	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
	. "github.com/mmcloughlin/avo/reg"
)

// GenSIMDSum emits an unrolled horizontal sum of n float32 values at vPtr.
func GenSIMDSum(n Register, vPtr Register, unroll int) Register {
	// Allocate accumulation registers.
	acc := make([]VecVirtual, unroll)
	for i := 0; i < unroll; i++ {
		acc[i] = YMM()
	}

	// Zero initialization.
	for i := 0; i < unroll; i++ {
		VXORPS(acc[i], acc[i], acc[i])
	}

	// Loop over blocks and process them with vector instructions.
	blockitems := 8 * unroll
	blocksize := 4 * blockitems

	Label("sumblockloop")
	CMPQ(n, U32(blockitems))
	JL(LabelRef("sumtail"))

	// Accumulate one block into acc[i], one independent chain per register.
	for i := 0; i < unroll; i++ {
		VADDPS(Mem{Base: vPtr}.Offset(32*i), acc[i], acc[i])
	}

	ADDQ(U32(blocksize), vPtr)

	SUBQ(U32(blockitems), n)

	JMP(LabelRef("sumblockloop"))

	// Process any trailing entries.
	Label("sumtail")
	tailAccumulator := XMM()
	VXORPS(tailAccumulator, tailAccumulator, tailAccumulator)

	Label("sumtailloop")
	CMPQ(n, U32(0))
	JE(LabelRef("sumreduce"))

	VADDSS(Mem{Base: vPtr}, tailAccumulator, tailAccumulator)

	ADDQ(U32(4), vPtr)
	DECQ(n)
	JMP(LabelRef("sumtailloop"))

	// Reduce the lanes to one.
	Label("sumreduce")
	for i := 1; i < unroll; i++ {
		VADDPS(acc[0], acc[i], acc[0])
	}

	result := acc[0].AsX()
	top := XMM()
	VEXTRACTF128(U8(1), acc[0], top)
	VADDPS(result, top, result)
	VADDPS(result, tailAccumulator, result)
	VHADDPS(result, result, result)
	VHADDPS(result, result, result)

	return result
}
