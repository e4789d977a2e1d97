package allocator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjhartley/gofat32/allocator"
	"github.com/kjhartley/gofat32/disk"
)

func newInitializedAllocator(t *testing.T) *allocator.Allocator {
	t.Helper()
	d, err := disk.New(8, 64)
	require.NoError(t, err)
	a := allocator.New(d)
	require.NoError(t, a.Init())
	return a
}

func TestInit_RootIsEOC(t *testing.T) {
	a := newInitializedAllocator(t)

	root, err := a.Disk.FATGet(disk.RootIndex)
	require.NoError(t, err)
	assert.True(t, root.IsEOC())
	assert.Equal(t, disk.AddressFromIndex(disk.RootIndex), a.RootAddress())
}

func TestAllocateCluster_FirstFit(t *testing.T) {
	a := newInitializedAllocator(t)

	first, err := a.AllocateCluster()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), first.Index(), "index 1 is the root, so the first free slot is 2")

	second, err := a.AllocateCluster()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), second.Index())
}

func TestAllocateCluster_ZeroesPayload(t *testing.T) {
	a := newInitializedAllocator(t)

	require.NoError(t, a.Disk.WriteClusterByte(2, 0, 0xFF))

	addr, err := a.AllocateCluster()
	require.NoError(t, err)
	require.Equal(t, uint32(2), addr.Index())

	data, err := a.Disk.ReadCluster(2)
	require.NoError(t, err)
	for _, b := range data {
		assert.Equal(t, byte(0), b)
	}
}

func TestAllocateCluster_Exhaustion(t *testing.T) {
	d, err := disk.New(8, 3)
	require.NoError(t, err)
	a := allocator.New(d)
	require.NoError(t, a.Init())

	// Index 0 unused, index 1 is root (EOC), index 2 is the only free slot.
	_, err = a.AllocateCluster()
	require.NoError(t, err)

	_, err = a.AllocateCluster()
	assert.Error(t, err)
}

func TestAllocateThenFreeChain_RoundTrip(t *testing.T) {
	a := newInitializedAllocator(t)

	before := make([]disk.ClusterAddress, a.Disk.ClusterCount)
	for i := range before {
		before[i], _ = a.Disk.FATGet(uint32(i))
	}

	addr, err := a.AllocateCluster()
	require.NoError(t, err)
	require.NoError(t, a.FreeChain(addr))

	for i := range before {
		after, err := a.Disk.FATGet(uint32(i))
		require.NoError(t, err)
		assert.Equal(t, before[i], after, "FAT slot %d should match pre-allocation state", i)
	}
}

func TestFreeChain_MultiClusterChain(t *testing.T) {
	a := newInitializedAllocator(t)

	first, err := a.AllocateCluster()
	require.NoError(t, err)
	second, err := a.AllocateCluster()
	require.NoError(t, err)
	require.NoError(t, a.Disk.FATSet(first.Index(), second))

	require.NoError(t, a.FreeChain(first))

	v1, err := a.Disk.FATGet(first.Index())
	require.NoError(t, err)
	v2, err := a.Disk.FATGet(second.Index())
	require.NoError(t, err)
	assert.True(t, v1.IsNull())
	assert.True(t, v2.IsNull())
}

func TestFreeChain_NullIsNoop(t *testing.T) {
	a := newInitializedAllocator(t)
	assert.NoError(t, a.FreeChain(disk.Null))
}

func TestValidate_DetectsSharedCluster(t *testing.T) {
	a := newInitializedAllocator(t)

	first, err := a.AllocateCluster()
	require.NoError(t, err)
	second, err := a.AllocateCluster()
	require.NoError(t, err)

	// Corrupt the FAT: make two independent chains converge on the same
	// cluster.
	require.NoError(t, a.Disk.FATSet(first.Index(), disk.AddressFromIndex(second.Index())))

	err = a.Validate([]disk.ClusterAddress{first, second})
	assert.Error(t, err)
}

func TestValidate_CleanFileSystem(t *testing.T) {
	a := newInitializedAllocator(t)

	first, err := a.AllocateCluster()
	require.NoError(t, err)

	err = a.Validate([]disk.ClusterAddress{a.RootAddress(), first})
	assert.NoError(t, err)
}

func TestFreeClusterCount_TracksAllocations(t *testing.T) {
	a := newInitializedAllocator(t)

	before, err := a.FreeClusterCount()
	require.NoError(t, err)

	_, err = a.AllocateCluster()
	require.NoError(t, err)

	after, err := a.FreeClusterCount()
	require.NoError(t, err)
	assert.Equal(t, before-1, after)
}
