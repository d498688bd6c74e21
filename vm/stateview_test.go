package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapBackedView(base map[string][]byte) StateView {
	read := func(key string) ([]byte, error) {
		if v, ok := base[key]; ok {
			return v, nil
		}
		return nil, nil
	}
	scan := func(prefix string) (map[string][]byte, error) {
		out := make(map[string][]byte)
		for k, v := range base {
			if strings.HasPrefix(k, prefix) {
				out[k] = v
			}
		}
		return out, nil
	}
	return NewStateView(read, scan)
}

func TestStateViewOverlay(t *testing.T) {
	sv := mapBackedView(map[string][]byte{"a": []byte("base")})

	// 读穿到底层
	val, exists, err := sv.Get("a")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "base", string(val))

	// overlay 覆盖底层
	sv.Set("a", []byte("over"))
	val, _, _ = sv.Get("a")
	assert.Equal(t, "over", string(val))

	// 删除遮蔽底层值
	sv.Del("a")
	_, exists, _ = sv.Get("a")
	assert.False(t, exists)
}

func TestStateViewSnapshotRevert(t *testing.T) {
	sv := mapBackedView(map[string][]byte{"a": []byte("base")})

	sv.Set("b", []byte("1"))
	snap := sv.Snapshot()

	sv.Set("b", []byte("2"))
	sv.Set("c", []byte("3"))
	sv.Del("a")

	require.NoError(t, sv.Revert(snap))

	val, _, _ := sv.Get("b")
	assert.Equal(t, "1", string(val))
	_, exists, _ := sv.Get("c")
	assert.False(t, exists, "c was set after snapshot")
	val, exists, _ = sv.Get("a")
	require.True(t, exists, "delete of a must be undone")
	assert.Equal(t, "base", string(val))

	assert.Error(t, sv.Revert(-1))
	assert.Error(t, sv.Revert(99))
}

func TestStateViewDiffSorted(t *testing.T) {
	sv := mapBackedView(nil)
	sv.Set("z", []byte("1"))
	sv.Set("a", []byte("2"))
	sv.Del("m")

	diff := sv.Diff()
	require.Len(t, diff, 3)
	assert.Equal(t, "a", diff[0].Key)
	assert.Equal(t, "m", diff[1].Key)
	assert.True(t, diff[1].Del)
	assert.Equal(t, "z", diff[2].Key)
}

func TestStateViewDiffCarriesCategory(t *testing.T) {
	sv := mapBackedView(nil)
	sv.SetWithCategory("b", []byte("1"), CategoryBalance)
	sv.Set("v", []byte("2"))

	diff := sv.Diff()
	require.Len(t, diff, 2)
	assert.Equal(t, CategoryBalance, diff[0].Category)
	assert.Equal(t, "", diff[1].Category)
}

func TestStateViewScanMergesOverlay(t *testing.T) {
	sv := mapBackedView(map[string][]byte{
		"p_1": []byte("base1"),
		"p_2": []byte("base2"),
		"q_1": []byte("other"),
	})
	sv.Set("p_2", []byte("over2"))
	sv.Set("p_3", []byte("new3"))
	sv.Del("p_1")

	got, err := sv.Scan("p_")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "over2", string(got["p_2"]))
	assert.Equal(t, "new3", string(got["p_3"]))
	_, has := got["p_1"]
	assert.False(t, has)
}

func TestStateViewGetReturnsCopy(t *testing.T) {
	sv := mapBackedView(nil)
	sv.Set("k", []byte("abc"))

	val, _, _ := sv.Get("k")
	val[0] = 'X'

	again, _, _ := sv.Get("k")
	assert.Equal(t, "abc", string(again))
}
