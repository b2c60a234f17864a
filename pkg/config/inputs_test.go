package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputsRestart(t *testing.T) {
	assert.True(t, Inputs{IsRestart: "true"}.Restart())
	assert.False(t, Inputs{IsRestart: "TRUE"}.Restart())
	assert.False(t, Inputs{IsRestart: "yes"}.Restart())
	assert.False(t, Inputs{}.Restart())
}

func TestInputsWait(t *testing.T) {
	assert.True(t, Inputs{}.Wait())
	assert.True(t, Inputs{WaitForFinish: "true"}.Wait())
	assert.True(t, Inputs{WaitForFinish: "no"}.Wait())
	assert.False(t, Inputs{WaitForFinish: "false"}.Wait())
}

func TestInputsTargets(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected []string
	}{
		{"t1,t2", []string{"t1", "t2"}},
		{" t1 , t2 ", []string{"t1", "t2"}},
		{"t2,t1", []string{"t2", "t1"}},
		{"t1,,t2,", []string{"t1", "t2"}},
		{"", nil},
		{" , ", nil},
	} {
		assert.Equal(t, tc.expected, Inputs{TargetAppIDs: tc.input}.Targets(), tc.input)
	}
}
