package turtle

// Queue is a FIFO buffer of instructions owned by one turtle.
// Instructions leave in exactly the order they entered.
type Queue struct {
	items []Instruction
	head  int
}

// Push appends an instruction. Amortized O(1).
func (q *Queue) Push(in Instruction) {
	q.items = append(q.items, in)
}

// Pop removes and returns the oldest instruction.
func (q *Queue) Pop() (Instruction, bool) {
	if q.head >= len(q.items) {
		return Instruction{}, false
	}
	in := q.items[q.head]
	q.items[q.head] = Instruction{}
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return in, true
}

// PopBack removes and returns the most recently pushed instruction.
func (q *Queue) PopBack() (Instruction, bool) {
	if q.head >= len(q.items) {
		return Instruction{}, false
	}
	last := len(q.items) - 1
	in := q.items[last]
	q.items[last] = Instruction{}
	q.items = q.items[:last]
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return in, true
}

// Peek returns the oldest instruction without removing it.
func (q *Queue) Peek() (Instruction, bool) {
	if q.head >= len(q.items) {
		return Instruction{}, false
	}
	return q.items[q.head], true
}

// Len returns the number of queued instructions.
func (q *Queue) Len() int {
	return len(q.items) - q.head
}

// Clear discards every queued instruction.
func (q *Queue) Clear() {
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}
