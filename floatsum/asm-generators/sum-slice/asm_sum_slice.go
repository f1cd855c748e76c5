package main

import (
	"github.com/ahmedtd/sumbench/floatsum/asm-generators/genlib"
	. "github.com/mmcloughlin/avo/build"
)

func main() {
	TEXT("sumSlice", NOSPLIT,
		"func(n int, v []float32, vBase int) float32")

	n := Load(Param("n"), GP64())

	vPtr := Load(Param("v").Base(), GP64())
	vBase := Load(Param("vBase"), GP64())
	ADDQ(vBase, vPtr)

	result := genlib.GenSIMDSum(n, vPtr, 6)
	Store(result, ReturnIndex(0))

	RET()

	Generate()
}
