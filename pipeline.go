// pipeline.go - speculative fixed-size fetch/decode look-ahead
//
// The teacher's Step() decodes and executes one instruction at a time with
// no look-ahead; qx86 adds the spec's decode-ahead buffer as a new layer
// sitting in front of the teacher's per-instruction decode/dispatch split,
// since gas accounting needs a slot's full cost (including surcharges)
// known before any handler in the batch runs.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

// PipelineSize is the number of speculatively decoded slots held at once.
// Tunable; affects only throughput (spec.md §9).
const PipelineSize = 16

// fetchWindow is how many bytes the decoder is guaranteed to see ahead of
// EIP (spec.md §4.4).
const fetchWindow = 16

func slotGasCost(vm *VM, slot *decodedInst, eip uint32) uint64 {
	cost := vm.Gas.Cost(slot.tier)
	if slot.hasModRM {
		cost += vm.Gas.Cost(GasModRMSurcharge)
	}
	cost += uint64(slot.memArgs) * vm.Gas.Cost(GasMemoryAccess)
	if slot.behavior == PBUnpredictable {
		cost += vm.Gas.Cost(GasConditionalBranch)
	}
	if vm.Memory.IsWritableAddr(eip) {
		cost += vm.Gas.Cost(GasWriteableMemoryExec)
	}
	return cost
}

// fillPipeline populates vm.pipeline starting from vm.EIP, per spec.md §4.6.
// It never allocates once vm.pipeline has reached PipelineSize capacity.
func fillPipeline(vm *VM) {
	if cap(vm.pipeline) < PipelineSize {
		vm.pipeline = make([]decodedInst, PipelineSize)
	} else {
		vm.pipeline = vm.pipeline[:PipelineSize]
	}

	eip := vm.EIP
	runningGas := vm.GasRemaining
	stop := false

	for i := 0; i < PipelineSize; i++ {
		if stop {
			vm.pipeline[i] = nopSlot()
			continue
		}

		window, err := vm.Memory.GetSizedSlice(eip, fetchWindow)
		if err != nil {
			// Not enough contiguous memory to safely decode: surface the
			// fault at execution time instead of during speculation.
			vm.pipeline[i] = decodedInst{handler: handleDecodeFault(err), empty: false, length: 0}
			stop = true
			continue
		}

		slot, derr := decodeOne(vm.opcodeTable(), window)
		if derr != nil {
			vm.pipeline[i] = decodedInst{handler: handleDecodeFault(derr), empty: false, length: 0}
			stop = true
			continue
		}

		slot.gasCost = slotGasCost(vm, &slot, eip)
		vm.pipeline[i] = slot

		switch slot.behavior {
		case PBNone:
			eip += uint32(slot.length)
		case PBRelativeJump:
			eip = relativeJumpTarget(eip+uint32(slot.length), &slot)
			stop = true
		case PBUnpredictable, PBUnpredictableNoGas:
			eip += uint32(slot.length)
			stop = true
		}

		if vm.Memory.IsWritableAddr(eip) {
			stop = true
		}

		if slot.gasCost > runningGas {
			runningGas = 0
			stop = true
		} else {
			runningGas -= slot.gasCost
		}
	}
}

// relativeJumpTarget statically resolves a RelativeJump slot's target: the
// post-instruction EIP plus the sign-extended relative immediate carried
// in the slot's first argument.
func relativeJumpTarget(postEIP uint32, slot *decodedInst) uint32 {
	rel, err := slot.args[0].Imm.ConvertSizeSx(SizeDword)
	if err != nil {
		return postEIP
	}
	d, _ := rel.ExactDword()
	return postEIP + d
}
