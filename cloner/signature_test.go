package cloner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ilweave/mixweave/cloner"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/model/memory"
)

func TestSignaturesEqualUnderSubstitutionMatchesAfterRootRename(t *testing.T) {
	sourceRoot, targetRoot := newRootPair()

	intType := memory.NewTypeDef("System", "Int32")
	srcMethod := memory.NewMethodDef(sourceRoot, "Add")
	srcMethod.Return = intType
	srcMethod.AddParameter("x", sourceRoot)

	tgtMethod := memory.NewMethodDef(targetRoot, "Add")
	tgtMethod.Return = intType
	tgtMethod.AddParameter("x", targetRoot)

	assert.True(t, cloner.SignaturesEqualUnderSubstitution(srcMethod.Signature(), tgtMethod, sourceRoot, targetRoot))
}

func TestSignaturesEqualUnderSubstitutionRejectsDifferentShape(t *testing.T) {
	sourceRoot, targetRoot := newRootPair()

	intType := memory.NewTypeDef("System", "Int32")
	strType := memory.NewTypeDef("System", "String")

	srcMethod := memory.NewMethodDef(sourceRoot, "Add")
	srcMethod.Return = intType
	srcMethod.AddParameter("x", sourceRoot)

	tgtMethod := memory.NewMethodDef(targetRoot, "Add")
	tgtMethod.Return = strType
	tgtMethod.AddParameter("x", targetRoot)

	assert.False(t, cloner.SignaturesEqualUnderSubstitution(srcMethod.Signature(), tgtMethod, sourceRoot, targetRoot))
}

func TestFindMatchingMethodReturnsErrorWhenNoCandidateMatches(t *testing.T) {
	sourceRoot, targetRoot := newRootPair()

	srcMethod := memory.NewMethodDef(sourceRoot, "Add")
	other := memory.NewMethodDef(targetRoot, "Subtract")

	_, err := cloner.FindMatchingMethod(srcMethod, []model.MethodDef{other}, sourceRoot, targetRoot)
	assert.ErrorIs(t, err, cloner.ErrSignatureMatchMissing)
}
