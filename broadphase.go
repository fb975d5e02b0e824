package impulse

import "sort"

type broadPhaseAddPairCallback func(userDataA interface{}, userDataB interface{})

type proxyPair struct {
	proxyIdA int
	proxyIdB int
}

const nullProxy = -1

// BroadPhase manages fat AABB proxies in a dynamic tree and computes the
// candidate pairs whose proxies moved since the last update.
type BroadPhase struct {
	tree DynamicTree

	proxyCount int

	moveBuffer []int
	moveCount  int

	pairBuffer []proxyPair

	queryProxyId int
}

func MakeBroadPhase(cfg Config) BroadPhase {
	return BroadPhase{
		tree:       MakeDynamicTree(cfg),
		moveBuffer: make([]int, 0, 16),
		pairBuffer: make([]proxyPair, 0, 16),
	}
}

func (bp *BroadPhase) GetUserData(proxyId int) interface{} {
	return bp.tree.GetUserData(proxyId)
}

// TestOverlap tests the fat AABBs of two proxies for overlap.
func (bp *BroadPhase) TestOverlap(proxyIdA int, proxyIdB int) bool {
	return TestOverlapAABB(bp.tree.GetFatAABB(proxyIdA), bp.tree.GetFatAABB(proxyIdB))
}

func (bp *BroadPhase) GetFatAABB(proxyId int) AABB {
	return bp.tree.GetFatAABB(proxyId)
}

func (bp *BroadPhase) GetProxyCount() int {
	return bp.proxyCount
}

func (bp *BroadPhase) GetTreeHeight() int {
	return bp.tree.GetHeight()
}

func (bp *BroadPhase) GetTreeBalance() int {
	return bp.tree.GetMaxBalance()
}

func (bp *BroadPhase) GetTreeQuality() float64 {
	return bp.tree.GetAreaRatio()
}

// CreateProxy makes a proxy and buffers it so UpdatePairs considers it moved.
func (bp *BroadPhase) CreateProxy(aabb AABB, userData interface{}) int {
	proxyId := bp.tree.CreateProxy(aabb, userData)
	bp.proxyCount++
	bp.bufferMove(proxyId)
	return proxyId
}

func (bp *BroadPhase) DestroyProxy(proxyId int) {
	bp.unBufferMove(proxyId)
	bp.proxyCount--
	bp.tree.DestroyProxy(proxyId)
}

// MoveProxy is called as many times as you like; actual pair computation
// happens in UpdatePairs.
func (bp *BroadPhase) MoveProxy(proxyId int, aabb AABB, displacement Vec2) {
	if bp.tree.MoveProxy(proxyId, aabb, displacement) {
		bp.bufferMove(proxyId)
	}
}

// TouchProxy forces the proxy to be considered moved on the next update.
func (bp *BroadPhase) TouchProxy(proxyId int) {
	bp.bufferMove(proxyId)
}

func (bp *BroadPhase) bufferMove(proxyId int) {
	if bp.moveCount == len(bp.moveBuffer) {
		bp.moveBuffer = append(bp.moveBuffer, proxyId)
	} else {
		bp.moveBuffer[bp.moveCount] = proxyId
	}
	bp.moveCount++
}

func (bp *BroadPhase) unBufferMove(proxyId int) {
	for i := 0; i < bp.moveCount; i++ {
		if bp.moveBuffer[i] == proxyId {
			bp.moveBuffer[i] = nullProxy
		}
	}
}

// queryCallback is invoked by the tree query while gathering pairs.
func (bp *BroadPhase) queryCallback(proxyId int) bool {
	// A proxy cannot form a pair with itself.
	if proxyId == bp.queryProxyId {
		return true
	}

	bp.pairBuffer = append(bp.pairBuffer, proxyPair{
		proxyIdA: MinInt(proxyId, bp.queryProxyId),
		proxyIdB: MaxInt(proxyId, bp.queryProxyId),
	})

	return true
}

// UpdatePairs queries the tree for every moved proxy and reports each new
// overlapping pair exactly once.
func (bp *BroadPhase) UpdatePairs(addPair broadPhaseAddPairCallback) {
	// Reset pair buffer.
	bp.pairBuffer = bp.pairBuffer[:0]

	// Perform tree queries for all moving proxies.
	for i := 0; i < bp.moveCount; i++ {
		bp.queryProxyId = bp.moveBuffer[i]
		if bp.queryProxyId == nullProxy {
			continue
		}

		// We have to query the tree with the fat AABB so that we don't fail
		// to create a pair that may touch later.
		fatAABB := bp.tree.GetFatAABB(bp.queryProxyId)

		// Query tree, create pairs and add them to the pair buffer.
		bp.tree.Query(bp.queryCallback, fatAABB)
	}

	// Reset move buffer.
	bp.moveCount = 0

	// Sort the pair buffer to expose duplicates.
	sort.Slice(bp.pairBuffer, func(i, j int) bool {
		a, b := bp.pairBuffer[i], bp.pairBuffer[j]
		if a.proxyIdA < b.proxyIdA {
			return true
		}
		if a.proxyIdA == b.proxyIdA {
			return a.proxyIdB < b.proxyIdB
		}
		return false
	})

	// Send the pairs back to the client, skipping duplicates.
	i := 0
	for i < len(bp.pairBuffer) {
		primaryPair := bp.pairBuffer[i]
		userDataA := bp.tree.GetUserData(primaryPair.proxyIdA)
		userDataB := bp.tree.GetUserData(primaryPair.proxyIdB)

		addPair(userDataA, userDataB)
		i++

		for i < len(bp.pairBuffer) {
			pair := bp.pairBuffer[i]
			if pair.proxyIdA != primaryPair.proxyIdA || pair.proxyIdB != primaryPair.proxyIdB {
				break
			}
			i++
		}
	}
}

// Query visits each proxy whose fat AABB overlaps the given AABB.
func (bp *BroadPhase) Query(callback treeQueryCallback, aabb AABB) {
	bp.tree.Query(callback, aabb)
}

// RayCast visits each proxy hit by the ray.
func (bp *BroadPhase) RayCast(callback treeRayCastCallback, input RayCastInput) {
	bp.tree.RayCast(callback, input)
}

func (bp *BroadPhase) ShiftOrigin(newOrigin Vec2) {
	bp.tree.ShiftOrigin(newOrigin)
}
