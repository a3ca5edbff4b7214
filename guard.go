package multisource

// guard is a single-flight reentrancy flag for one method of one
// composite. Use as:
//
//	if !c.inWidth.enter() {
//	    return 0
//	}
//	defer c.inWidth.leave()
type guard struct {
	active bool
}

// enter reports whether the caller may proceed. It returns false while
// the guarded call is already on the stack.
func (g *guard) enter() bool {
	if g.active {
		return false
	}
	g.active = true
	return true
}

func (g *guard) leave() {
	g.active = false
}
