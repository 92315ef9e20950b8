package entropy

import "container/heap"

// huffNode is a node of the decode tree: leaves hold a symbol, internal
// nodes hold left (bit 0) and right (bit 1) children.
type huffNode struct {
	sym         uint16
	freq        float64
	left, right *huffNode
}

func (n *huffNode) leaf() bool { return n.left == nil && n.right == nil }

// nodeHeap is a min-heap of *huffNode ordered by frequency, used only while
// building the tree.
type nodeHeap []*huffNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].freq < h[j].freq }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*huffNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// buildHuffmanTree builds a canonical-shape binary Huffman tree from a set
// of symbols and their relative frequencies, using the standard
// priority-queue construction. Symbols with higher relative frequency
// receive shorter codes; the result is always a complete prefix code
// because every merge consumes exactly two queue entries and the queue
// starts with one entry per symbol.
//
// The frequency model favors small (run, category) combinations, which is
// the expected shape of LCEVC residual streams after temporal prediction:
// most TUs are unchanged (long runs) or carry small corrections.
func buildHuffmanTree(symbols []uint16, freq []float64) *huffNode {
	if len(symbols) == 0 {
		return nil
	}
	h := make(nodeHeap, len(symbols))
	for i, s := range symbols {
		h[i] = &huffNode{sym: s, freq: freq[i]}
	}
	heap.Init(&h)
	for h.Len() > 1 {
		a := heap.Pop(&h).(*huffNode)
		b := heap.Pop(&h).(*huffNode)
		heap.Push(&h, &huffNode{freq: a.freq + b.freq, left: a, right: b})
	}
	return heap.Pop(&h).(*huffNode)
}

// decodeSymbol walks the tree one bit at a time until it reaches a leaf.
func decodeSymbol(r *bitReader, root *huffNode) (uint16, error) {
	if root == nil {
		return 0, ErrInvalidCode
	}
	n := root
	for !n.leaf() {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			n = n.left
		} else {
			n = n.right
		}
		if n == nil {
			return 0, ErrInvalidCode
		}
	}
	return n.sym, nil
}
