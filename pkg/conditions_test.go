package evoked_test

import (
	"testing"

	evoked "github.com/openeeg/evoked_go/pkg"
	"github.com/stretchr/testify/require"
)

func TestConditionMapResolve(t *testing.T) {
	cm, err := evoked.NewConditionMap(map[string][]int{
		"auditory/left":  {1},
		"auditory/right": {2},
		"visual/left":    {3},
		"visual/right":   {4},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"auditory/left", "auditory/right", "visual/left", "visual/right"}, cm.Names())

	matched, err := cm.Resolve("left")
	require.NoError(t, err)
	require.Equal(t, []string{"auditory/left", "visual/left"}, matched)

	matched, err = cm.Resolve("auditory/left")
	require.NoError(t, err)
	require.Equal(t, []string{"auditory/left"}, matched)

	codes, err := cm.Codes("auditory")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, codes)

	codes, err = cm.Codes("left")
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, codes)
}

func TestConditionMapUnknownKey(t *testing.T) {
	cm, err := evoked.NewConditionMap(map[string][]int{"auditory/left": {1}})
	require.NoError(t, err)

	_, err = cm.Resolve("lef")
	var unknown *evoked.ErrUnknownCondition
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "lef", unknown.Key)
}

func TestConditionMapValidation(t *testing.T) {
	_, err := evoked.NewConditionMap(map[string][]int{"auditory": nil})
	require.Error(t, err)

	_, err = evoked.NewConditionMap(map[string][]int{"auditory//left": {1}})
	require.Error(t, err)

	_, err = evoked.NewConditionMap(map[string][]int{
		"auditory": {1},
		"visual":   {1},
	})
	require.Error(t, err)
}
