package grammarbundle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renatahodovan/picireny/grammarbundle"
)

func TestSetForRuleLooksUpByHostRuleName(t *testing.T) {
	t.Parallel()
	s := grammarbundle.NewSet([]grammarbundle.Island{
		{Rule: "STYLE_BODY", Grammar: "CSS", Start: "stylesheet"},
	})

	isl, ok := s.ForRule("STYLE_BODY")
	assert.True(t, ok)
	assert.Equal(t, "CSS", isl.Grammar)

	_, ok = s.ForRule("SCRIPT_BODY")
	assert.False(t, ok)
}

func TestSetAtLooksUpRegisteredByteRange(t *testing.T) {
	t.Parallel()
	s := grammarbundle.NewSet(nil)
	css := grammarbundle.Island{Rule: "STYLE_BODY", Grammar: "CSS", Start: "stylesheet"}
	s.Register(10, 20, css)

	isl, ok := s.At(15)
	assert.True(t, ok)
	assert.Equal(t, "CSS", isl.Grammar)

	_, ok = s.At(25)
	assert.False(t, ok)
}
