package dominance

import "github.com/roach88/irverify/internal/ir"

// tree is the dominator tree of one region. Blocks missing from rpo are
// unreachable.
type tree struct {
	entry *ir.Block
	rpo   map[*ir.Block]int
	idom  map[*ir.Block]*ir.Block
}

func (t *tree) reachable(b *ir.Block) bool {
	_, ok := t.rpo[b]
	return ok
}

// properlyDominates follows LLVM's convention: an unreachable block is
// dominated by every block, and dominates nothing but itself.
func (t *tree) properlyDominates(a, b *ir.Block) bool {
	if a == b {
		return false
	}
	if !t.reachable(b) {
		return true
	}
	if !t.reachable(a) {
		return false
	}
	for x := t.idom[b]; ; x = t.idom[x] {
		if x == a {
			return true
		}
		if x == t.entry {
			return false
		}
	}
}

// successorsIn returns b's successors that belong to region. Branches that
// leave the region are a structural error and never contribute edges.
func successorsIn(region *ir.Region, b *ir.Block) []*ir.Block {
	succs := b.Successors()
	out := succs[:0:0]
	for _, s := range succs {
		if s != nil && s.Parent() == region {
			out = append(out, s)
		}
	}
	return out
}

// reversePostOrder walks region from its entry with an explicit stack so
// that long block chains cannot exhaust the goroutine stack.
func reversePostOrder(region *ir.Region) []*ir.Block {
	entry := region.Front()
	if entry == nil {
		return nil
	}

	type frame struct {
		block *ir.Block
		succs []*ir.Block
		next  int
	}

	visited := map[*ir.Block]bool{entry: true}
	stack := []frame{{block: entry, succs: successorsIn(region, entry)}}
	var post []*ir.Block

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.succs) {
			s := top.succs[top.next]
			top.next++
			if !visited[s] {
				visited[s] = true
				stack = append(stack, frame{block: s, succs: successorsIn(region, s)})
			}
			continue
		}
		post = append(post, top.block)
		stack = stack[:len(stack)-1]
	}

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// build computes immediate dominators with Cooper, Harvey and Kennedy's
// "A Simple, Fast Dominance Algorithm".
func build(region *ir.Region) *tree {
	order := reversePostOrder(region)
	t := &tree{
		entry: region.Front(),
		rpo:   make(map[*ir.Block]int, len(order)),
		idom:  make(map[*ir.Block]*ir.Block, len(order)),
	}
	if len(order) == 0 {
		return t
	}
	for i, b := range order {
		t.rpo[b] = i
	}

	preds := make(map[*ir.Block][]*ir.Block, len(order))
	for _, b := range order {
		for _, s := range successorsIn(region, b) {
			preds[s] = append(preds[s], b)
		}
	}

	intersect := func(b1, b2 *ir.Block) *ir.Block {
		for b1 != b2 {
			for t.rpo[b1] > t.rpo[b2] {
				b1 = t.idom[b1]
			}
			for t.rpo[b2] > t.rpo[b1] {
				b2 = t.idom[b2]
			}
		}
		return b1
	}

	t.idom[t.entry] = t.entry
	for changed := true; changed; {
		changed = false
		for _, b := range order[1:] {
			var newIdom *ir.Block
			for _, p := range preds[b] {
				if t.idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
				} else {
					newIdom = intersect(p, newIdom)
				}
			}
			if t.idom[b] != newIdom {
				t.idom[b] = newIdom
				changed = true
			}
		}
	}
	return t
}
