// dispatch.go - the fetch/decode/execute cycle and the outer run loop
//
// Grounded on cpu_x86.go's Step() dispatch loop (fetch one instruction,
// execute it, advance EIP), generalized to run over a pre-filled pipeline
// of slots instead of decoding one instruction at a time, per spec.md §4.7.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

// cycle fills the pipeline from the current EIP and executes every
// non-empty slot in it in order. Returns (true, nil) on HLT, (false, nil)
// to continue, or (false, err) on a fault - in which case VM.EIP is left
// at the faulting instruction's start (spec.md §3's error_eip invariant).
func (vm *VM) cycle(hv Hypervisor) (bool, error) {
	fillPipeline(vm)

	for i := 0; i < len(vm.pipeline); i++ {
		slot := &vm.pipeline[i]
		if slot.empty {
			break
		}

		if err := vm.ChargeGas(slot.gasCost); err != nil {
			vm.ErrorEIP = vm.EIP
			return false, err
		}

		err := slot.handler(vm, slot, hv)
		if err == nil {
			vm.EIP += uint32(slot.length)
			continue
		}
		if _, ok := err.(*errInternalVMStop); ok {
			return true, nil
		}
		vm.ErrorEIP = vm.EIP
		return false, err
	}

	return false, nil
}

// Execute runs the dispatch loop until HLT, a fault, or OutOfGas, using hv
// to service INT/INT3. Per spec.md §4.7/§6.
func (vm *VM) Execute(hv Hypervisor) error {
	for {
		halted, err := vm.cycle(hv)
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}
