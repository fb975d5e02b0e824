package impulse

import "math"

const nullNode = -1

type treeQueryCallback func(nodeId int) bool

type treeRayCastCallback func(input RayCastInput, nodeId int) float64

type treeNode struct {
	// Enlarged AABB.
	aabb AABB

	userData interface{}

	// parent doubles as the free-list next pointer.
	parent int

	child1 int
	child2 int

	// leaf = 0, free node = -1
	height int
}

func (node *treeNode) isLeaf() bool {
	return node.child1 == nullNode
}

// growableStack is a tiny index stack used by the tree traversals.
type growableStack struct {
	entries []int
}

func (s *growableStack) push(v int) {
	s.entries = append(s.entries, v)
}

func (s *growableStack) pop() int {
	n := len(s.entries)
	v := s.entries[n-1]
	s.entries = s.entries[:n-1]
	return v
}

func (s *growableStack) count() int {
	return len(s.entries)
}

// DynamicTree is a dynamic AABB tree broad-phase, inspired by Nathanael
// Presson's btDbvt. Data is arranged in a binary tree to accelerate volume
// queries and ray casts. Leaves are proxies with a fattened AABB, so the
// client object can move by small amounts without triggering a tree update.
//
// Nodes are pooled and relocatable, so node indices are used rather than
// pointers.
type DynamicTree struct {
	root int

	nodes        []treeNode
	nodeCount    int
	nodeCapacity int

	freeList int

	insertionCount int

	extension  float64
	multiplier float64
}

// MakeDynamicTree builds an empty tree. The AABB extension and displacement
// multiplier come from the configuration.
func MakeDynamicTree(cfg Config) DynamicTree {
	tree := DynamicTree{
		root:         nullNode,
		nodeCapacity: 16,
		extension:    cfg.AABBExtension,
		multiplier:   cfg.AABBMultiplier,
	}
	tree.nodes = make([]treeNode, tree.nodeCapacity)

	// Build a linked list for the free list.
	for i := 0; i < tree.nodeCapacity-1; i++ {
		tree.nodes[i].parent = i + 1
		tree.nodes[i].height = -1
	}
	tree.nodes[tree.nodeCapacity-1].parent = nullNode
	tree.nodes[tree.nodeCapacity-1].height = -1
	tree.freeList = 0

	return tree
}

// GetUserData returns the user data stored on a proxy.
func (tree *DynamicTree) GetUserData(proxyId int) interface{} {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	return tree.nodes[proxyId].userData
}

// GetFatAABB returns the fattened AABB of a proxy.
func (tree *DynamicTree) GetFatAABB(proxyId int) AABB {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	return tree.nodes[proxyId].aabb
}

// Query visits every leaf proxy overlapping the given AABB. Returning false
// from the callback terminates the query.
func (tree *DynamicTree) Query(callback treeQueryCallback, aabb AABB) {
	var stack growableStack
	stack.push(tree.root)

	for stack.count() > 0 {
		nodeId := stack.pop()
		if nodeId == nullNode {
			continue
		}

		node := &tree.nodes[nodeId]

		if TestOverlapAABB(node.aabb, aabb) {
			if node.isLeaf() {
				if !callback(nodeId) {
					return
				}
			} else {
				stack.push(node.child1)
				stack.push(node.child2)
			}
		}
	}
}

// RayCast walks the tree along the ray, calling back for every candidate leaf.
// The callback returns the new clipped max fraction, or 0 to terminate.
func (tree *DynamicTree) RayCast(callback treeRayCastCallback, input RayCastInput) {
	p1 := input.P1
	p2 := input.P2
	r := p2.Sub(p1)
	assert(r.LengthSquared() > 0.0)
	r.Normalize()

	// v is perpendicular to the segment.
	v := CrossSV(1.0, r)
	absV := Vec2Abs(v)

	// Separating axis for segment (Gino, p80).
	// |dot(v, p1 - c)| > dot(|v|, h)

	maxFraction := input.MaxFraction

	// Build a bounding box for the segment.
	var segmentAABB AABB
	{
		t := p1.Add(p2.Sub(p1).Scale(maxFraction))
		segmentAABB.LowerBound = Vec2Min(p1, t)
		segmentAABB.UpperBound = Vec2Max(p1, t)
	}

	var stack growableStack
	stack.push(tree.root)

	for stack.count() > 0 {
		nodeId := stack.pop()
		if nodeId == nullNode {
			continue
		}

		node := &tree.nodes[nodeId]

		if !TestOverlapAABB(node.aabb, segmentAABB) {
			continue
		}

		// Separating axis for segment (Gino, p80).
		// |dot(v, p1 - c)| > dot(|v|, h)
		c := node.aabb.GetCenter()
		h := node.aabb.GetExtents()

		separation := math.Abs(Dot(v, p1.Sub(c))) - Dot(absV, h)
		if separation > 0.0 {
			continue
		}

		if node.isLeaf() {
			subInput := RayCastInput{
				P1:          input.P1,
				P2:          input.P2,
				MaxFraction: maxFraction,
			}

			value := callback(subInput, nodeId)

			if value == 0.0 {
				// The client has terminated the ray cast.
				return
			}

			if value > 0.0 {
				// Update segment bounding box.
				maxFraction = value
				t := p1.Add(p2.Sub(p1).Scale(maxFraction))
				segmentAABB.LowerBound = Vec2Min(p1, t)
				segmentAABB.UpperBound = Vec2Max(p1, t)
			}
		} else {
			stack.push(node.child1)
			stack.push(node.child2)
		}
	}
}

// allocateNode takes a node from the pool, growing the pool if needed.
func (tree *DynamicTree) allocateNode() int {
	if tree.freeList == nullNode {
		assert(tree.nodeCount == tree.nodeCapacity)

		// The free list is empty. Rebuild a bigger pool. The parent pointer
		// becomes the "next" pointer.
		tree.nodes = append(tree.nodes, make([]treeNode, tree.nodeCapacity)...)
		tree.nodeCapacity *= 2

		for i := tree.nodeCount; i < tree.nodeCapacity-1; i++ {
			tree.nodes[i].parent = i + 1
			tree.nodes[i].height = -1
		}
		tree.nodes[tree.nodeCapacity-1].parent = nullNode
		tree.nodes[tree.nodeCapacity-1].height = -1
		tree.freeList = tree.nodeCount
	}

	// Peel a node off the free list.
	nodeId := tree.freeList
	tree.freeList = tree.nodes[nodeId].parent
	tree.nodes[nodeId].parent = nullNode
	tree.nodes[nodeId].child1 = nullNode
	tree.nodes[nodeId].child2 = nullNode
	tree.nodes[nodeId].height = 0
	tree.nodes[nodeId].userData = nil
	tree.nodeCount++

	return nodeId
}

func (tree *DynamicTree) freeNode(nodeId int) {
	assert(0 <= nodeId && nodeId < tree.nodeCapacity)
	assert(0 < tree.nodeCount)
	tree.nodes[nodeId].parent = tree.freeList
	tree.nodes[nodeId].height = -1
	tree.freeList = nodeId
	tree.nodeCount--
}

// CreateProxy inserts a leaf with a fattened AABB. The node index is returned
// instead of a pointer so the pool can grow.
func (tree *DynamicTree) CreateProxy(aabb AABB, userData interface{}) int {
	proxyId := tree.allocateNode()

	// Fatten the aabb.
	r := Vec2{tree.extension, tree.extension}
	tree.nodes[proxyId].aabb.LowerBound = aabb.LowerBound.Sub(r)
	tree.nodes[proxyId].aabb.UpperBound = aabb.UpperBound.Add(r)
	tree.nodes[proxyId].userData = userData
	tree.nodes[proxyId].height = 0

	tree.insertLeaf(proxyId)

	return proxyId
}

func (tree *DynamicTree) DestroyProxy(proxyId int) {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	assert(tree.nodes[proxyId].isLeaf())

	tree.removeLeaf(proxyId)
	tree.freeNode(proxyId)
}

// MoveProxy updates a proxy with a new AABB. If the fattened AABB still
// contains the new AABB nothing happens and false is returned; otherwise the
// proxy is reinserted with a displacement-predicted AABB.
func (tree *DynamicTree) MoveProxy(proxyId int, aabb AABB, displacement Vec2) bool {
	assert(0 <= proxyId && proxyId < tree.nodeCapacity)
	assert(tree.nodes[proxyId].isLeaf())

	if tree.nodes[proxyId].aabb.Contains(aabb) {
		return false
	}

	tree.removeLeaf(proxyId)

	// Extend AABB.
	b := aabb
	r := Vec2{tree.extension, tree.extension}
	b.LowerBound = b.LowerBound.Sub(r)
	b.UpperBound = b.UpperBound.Add(r)

	// Predict AABB displacement.
	d := displacement.Scale(tree.multiplier)

	if d.X < 0.0 {
		b.LowerBound.X += d.X
	} else {
		b.UpperBound.X += d.X
	}

	if d.Y < 0.0 {
		b.LowerBound.Y += d.Y
	} else {
		b.UpperBound.Y += d.Y
	}

	tree.nodes[proxyId].aabb = b

	tree.insertLeaf(proxyId)

	return true
}

func (tree *DynamicTree) insertLeaf(leaf int) {
	tree.insertionCount++

	if tree.root == nullNode {
		tree.root = leaf
		tree.nodes[tree.root].parent = nullNode
		return
	}

	// Find the best sibling for this node.
	leafAABB := tree.nodes[leaf].aabb
	index := tree.root
	for !tree.nodes[index].isLeaf() {
		child1 := tree.nodes[index].child1
		child2 := tree.nodes[index].child2

		area := tree.nodes[index].aabb.GetPerimeter()

		var combinedAABB AABB
		combinedAABB.CombineTwo(tree.nodes[index].aabb, leafAABB)
		combinedArea := combinedAABB.GetPerimeter()

		// Cost of creating a new parent for this node and the new leaf.
		cost := 2.0 * combinedArea

		// Minimum cost of pushing the leaf further down the tree.
		inheritanceCost := 2.0 * (combinedArea - area)

		// Cost of descending into child1.
		var cost1 float64
		{
			var aabb AABB
			aabb.CombineTwo(leafAABB, tree.nodes[child1].aabb)
			if tree.nodes[child1].isLeaf() {
				cost1 = aabb.GetPerimeter() + inheritanceCost
			} else {
				oldArea := tree.nodes[child1].aabb.GetPerimeter()
				newArea := aabb.GetPerimeter()
				cost1 = (newArea - oldArea) + inheritanceCost
			}
		}

		// Cost of descending into child2.
		var cost2 float64
		{
			var aabb AABB
			aabb.CombineTwo(leafAABB, tree.nodes[child2].aabb)
			if tree.nodes[child2].isLeaf() {
				cost2 = aabb.GetPerimeter() + inheritanceCost
			} else {
				oldArea := tree.nodes[child2].aabb.GetPerimeter()
				newArea := aabb.GetPerimeter()
				cost2 = (newArea - oldArea) + inheritanceCost
			}
		}

		// Descend according to the minimum cost.
		if cost < cost1 && cost < cost2 {
			break
		}

		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index

	// Create a new parent.
	oldParent := tree.nodes[sibling].parent
	newParent := tree.allocateNode()
	tree.nodes[newParent].parent = oldParent
	tree.nodes[newParent].userData = nil
	tree.nodes[newParent].aabb.CombineTwo(leafAABB, tree.nodes[sibling].aabb)
	tree.nodes[newParent].height = tree.nodes[sibling].height + 1

	if oldParent != nullNode {
		// The sibling was not the root.
		if tree.nodes[oldParent].child1 == sibling {
			tree.nodes[oldParent].child1 = newParent
		} else {
			tree.nodes[oldParent].child2 = newParent
		}

		tree.nodes[newParent].child1 = sibling
		tree.nodes[newParent].child2 = leaf
		tree.nodes[sibling].parent = newParent
		tree.nodes[leaf].parent = newParent
	} else {
		// The sibling was the root.
		tree.nodes[newParent].child1 = sibling
		tree.nodes[newParent].child2 = leaf
		tree.nodes[sibling].parent = newParent
		tree.nodes[leaf].parent = newParent
		tree.root = newParent
	}

	// Walk back up the tree fixing heights and AABBs.
	index = tree.nodes[leaf].parent
	for index != nullNode {
		index = tree.balance(index)

		child1 := tree.nodes[index].child1
		child2 := tree.nodes[index].child2

		assert(child1 != nullNode)
		assert(child2 != nullNode)

		tree.nodes[index].height = 1 + MaxInt(tree.nodes[child1].height, tree.nodes[child2].height)
		tree.nodes[index].aabb.CombineTwo(tree.nodes[child1].aabb, tree.nodes[child2].aabb)

		index = tree.nodes[index].parent
	}
}

func (tree *DynamicTree) removeLeaf(leaf int) {
	if leaf == tree.root {
		tree.root = nullNode
		return
	}

	parent := tree.nodes[leaf].parent
	grandParent := tree.nodes[parent].parent
	var sibling int
	if tree.nodes[parent].child1 == leaf {
		sibling = tree.nodes[parent].child2
	} else {
		sibling = tree.nodes[parent].child1
	}

	if grandParent != nullNode {
		// Destroy parent and connect sibling to grandParent.
		if tree.nodes[grandParent].child1 == parent {
			tree.nodes[grandParent].child1 = sibling
		} else {
			tree.nodes[grandParent].child2 = sibling
		}
		tree.nodes[sibling].parent = grandParent
		tree.freeNode(parent)

		// Adjust ancestor bounds.
		index := grandParent
		for index != nullNode {
			index = tree.balance(index)

			child1 := tree.nodes[index].child1
			child2 := tree.nodes[index].child2

			tree.nodes[index].aabb.CombineTwo(tree.nodes[child1].aabb, tree.nodes[child2].aabb)
			tree.nodes[index].height = 1 + MaxInt(tree.nodes[child1].height, tree.nodes[child2].height)

			index = tree.nodes[index].parent
		}
	} else {
		tree.root = sibling
		tree.nodes[sibling].parent = nullNode
		tree.freeNode(parent)
	}
}

// balance performs a left or right rotation if node A is imbalanced.
// Returns the new root index of the sub-tree.
func (tree *DynamicTree) balance(iA int) int {
	assert(iA != nullNode)

	A := &tree.nodes[iA]
	if A.isLeaf() || A.height < 2 {
		return iA
	}

	iB := A.child1
	iC := A.child2
	assert(0 <= iB && iB < tree.nodeCapacity)
	assert(0 <= iC && iC < tree.nodeCapacity)

	B := &tree.nodes[iB]
	C := &tree.nodes[iC]

	balance := C.height - B.height

	// Rotate C up.
	if balance > 1 {
		iF := C.child1
		iG := C.child2
		assert(0 <= iF && iF < tree.nodeCapacity)
		assert(0 <= iG && iG < tree.nodeCapacity)
		F := &tree.nodes[iF]
		G := &tree.nodes[iG]

		// Swap A and C.
		C.child1 = iA
		C.parent = A.parent
		A.parent = iC

		// A's old parent should point to C.
		if C.parent != nullNode {
			if tree.nodes[C.parent].child1 == iA {
				tree.nodes[C.parent].child1 = iC
			} else {
				assert(tree.nodes[C.parent].child2 == iA)
				tree.nodes[C.parent].child2 = iC
			}
		} else {
			tree.root = iC
		}

		// Rotate.
		if F.height > G.height {
			C.child2 = iF
			A.child2 = iG
			G.parent = iA
			A.aabb.CombineTwo(B.aabb, G.aabb)
			C.aabb.CombineTwo(A.aabb, F.aabb)

			A.height = 1 + MaxInt(B.height, G.height)
			C.height = 1 + MaxInt(A.height, F.height)
		} else {
			C.child2 = iG
			A.child2 = iF
			F.parent = iA
			A.aabb.CombineTwo(B.aabb, F.aabb)
			C.aabb.CombineTwo(A.aabb, G.aabb)

			A.height = 1 + MaxInt(B.height, F.height)
			C.height = 1 + MaxInt(A.height, G.height)
		}

		return iC
	}

	// Rotate B up.
	if balance < -1 {
		iD := B.child1
		iE := B.child2
		assert(0 <= iD && iD < tree.nodeCapacity)
		assert(0 <= iE && iE < tree.nodeCapacity)

		D := &tree.nodes[iD]
		E := &tree.nodes[iE]

		// Swap A and B.
		B.child1 = iA
		B.parent = A.parent
		A.parent = iB

		// A's old parent should point to B.
		if B.parent != nullNode {
			if tree.nodes[B.parent].child1 == iA {
				tree.nodes[B.parent].child1 = iB
			} else {
				assert(tree.nodes[B.parent].child2 == iA)
				tree.nodes[B.parent].child2 = iB
			}
		} else {
			tree.root = iB
		}

		// Rotate.
		if D.height > E.height {
			B.child2 = iD
			A.child1 = iE
			E.parent = iA
			A.aabb.CombineTwo(C.aabb, E.aabb)
			B.aabb.CombineTwo(A.aabb, D.aabb)

			A.height = 1 + MaxInt(C.height, E.height)
			B.height = 1 + MaxInt(A.height, D.height)
		} else {
			B.child2 = iE
			A.child1 = iD
			D.parent = iA
			A.aabb.CombineTwo(C.aabb, D.aabb)
			B.aabb.CombineTwo(A.aabb, E.aabb)

			A.height = 1 + MaxInt(C.height, D.height)
			B.height = 1 + MaxInt(A.height, E.height)
		}

		return iB
	}

	return iA
}

// GetHeight returns the height of the tree.
func (tree *DynamicTree) GetHeight() int {
	if tree.root == nullNode {
		return 0
	}
	return tree.nodes[tree.root].height
}

// GetAreaRatio returns the sum of node perimeters divided by the root
// perimeter, a quality measure of the tree.
func (tree *DynamicTree) GetAreaRatio() float64 {
	if tree.root == nullNode {
		return 0.0
	}

	rootArea := tree.nodes[tree.root].aabb.GetPerimeter()

	totalArea := 0.0
	for i := 0; i < tree.nodeCapacity; i++ {
		node := &tree.nodes[i]
		if node.height < 0 {
			// Free node in pool.
			continue
		}

		totalArea += node.aabb.GetPerimeter()
	}

	return totalArea / rootArea
}

// GetMaxBalance returns the maximum height difference between siblings.
func (tree *DynamicTree) GetMaxBalance() int {
	maxBalance := 0
	for i := 0; i < tree.nodeCapacity; i++ {
		node := &tree.nodes[i]
		if node.height <= 1 {
			continue
		}

		assert(!node.isLeaf())

		child1 := node.child1
		child2 := node.child2
		balance := AbsInt(tree.nodes[child2].height - tree.nodes[child1].height)
		maxBalance = MaxInt(maxBalance, balance)
	}

	return maxBalance
}

// RebuildBottomUp rebuilds the tree with a greedy pairing of leaves. Slow but
// produces a near-optimal tree.
func (tree *DynamicTree) RebuildBottomUp() {
	nodes := make([]int, tree.nodeCount)
	count := 0

	// Build array of leaves. Free the rest.
	for i := 0; i < tree.nodeCapacity; i++ {
		if tree.nodes[i].height < 0 {
			// Free node in pool.
			continue
		}

		if tree.nodes[i].isLeaf() {
			tree.nodes[i].parent = nullNode
			nodes[count] = i
			count++
		} else {
			tree.freeNode(i)
		}
	}

	for count > 1 {
		minCost := maxFloat
		iMin, jMin := -1, -1

		for i := 0; i < count; i++ {
			aabbi := tree.nodes[nodes[i]].aabb

			for j := i + 1; j < count; j++ {
				aabbj := tree.nodes[nodes[j]].aabb
				var b AABB
				b.CombineTwo(aabbi, aabbj)
				cost := b.GetPerimeter()
				if cost < minCost {
					iMin = i
					jMin = j
					minCost = cost
				}
			}
		}

		index1 := nodes[iMin]
		index2 := nodes[jMin]
		child1 := &tree.nodes[index1]
		child2 := &tree.nodes[index2]

		parentIndex := tree.allocateNode()
		parent := &tree.nodes[parentIndex]
		parent.child1 = index1
		parent.child2 = index2
		parent.height = 1 + MaxInt(child1.height, child2.height)
		parent.aabb.CombineTwo(child1.aabb, child2.aabb)
		parent.parent = nullNode

		child1.parent = parentIndex
		child2.parent = parentIndex

		nodes[jMin] = nodes[count-1]
		nodes[iMin] = parentIndex
		count--
	}

	tree.root = nodes[0]
}

// ShiftOrigin moves the tree origin, for example to keep coordinates small in
// a large world.
func (tree *DynamicTree) ShiftOrigin(newOrigin Vec2) {
	for i := 0; i < tree.nodeCapacity; i++ {
		tree.nodes[i].aabb.LowerBound = tree.nodes[i].aabb.LowerBound.Sub(newOrigin)
		tree.nodes[i].aabb.UpperBound = tree.nodes[i].aabb.UpperBound.Sub(newOrigin)
	}
}
